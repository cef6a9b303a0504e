package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graft/pkg/errors"
)

// plan is a batch of transplant jobs read from a TOML file:
//
//	workers = 4
//
//	[[job]]
//	donor = "props.json"
//	recipient = "level.json"
//	actors = ["Cube", "7"]
//	output = "level_out.json"
//
// Relative paths are resolved against the plan file's directory. Jobs that
// share a recipient are applied in file order and must agree on the output.
type plan struct {
	Workers int       `toml:"workers"`
	Jobs    []planJob `toml:"job"`
}

type planJob struct {
	Donor     string   `toml:"donor"`
	Recipient string   `toml:"recipient"`
	Actors    []string `toml:"actors"`
	Output    string   `toml:"output"`
}

// loadPlan reads and checks the plan at path.
func loadPlan(path string) (*plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read plan %s", path)
		}
		return nil, err
	}
	p, err := parsePlan(string(data), filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	return p, nil
}

// parsePlan decodes a plan and resolves its paths against dir.
func parsePlan(data, dir string) (*plan, error) {
	var p plan
	md, err := toml.Decode(data, &p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPlan, err, "decode plan")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidPlan, "unknown plan keys: %s", strings.Join(keys, ", "))
	}

	if len(p.Jobs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidPlan, "plan has no [[job]] entries")
	}
	if p.Workers < 0 {
		return nil, errors.New(errors.ErrCodeInvalidPlan, "workers cannot be negative: %d", p.Workers)
	}
	if p.Workers == 0 {
		p.Workers = defaultBatchWorkers
	}

	outputs := make(map[string]string)
	for i := range p.Jobs {
		j := &p.Jobs[i]
		if j.Donor == "" || j.Recipient == "" {
			return nil, errors.New(errors.ErrCodeInvalidPlan, "job %d: donor and recipient are required", i+1)
		}
		if len(j.Actors) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidPlan, "job %d: no actors", i+1)
		}

		j.Donor = resolvePath(dir, j.Donor)
		j.Recipient = resolvePath(dir, j.Recipient)
		if j.Output == "" {
			j.Output = j.Recipient
		} else {
			j.Output = resolvePath(dir, j.Output)
		}
		for _, path := range []string{j.Donor, j.Recipient, j.Output} {
			if err := errors.ValidateDocumentPath(path); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidPlan, err, "job %d", i+1)
			}
		}

		if prev, ok := outputs[j.Recipient]; ok && prev != j.Output {
			return nil, errors.New(errors.ErrCodeInvalidPlan,
				"job %d: recipient %s already writes to %s", i+1, j.Recipient, prev)
		}
		outputs[j.Recipient] = j.Output
	}
	return &p, nil
}

func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(dir, path)
}

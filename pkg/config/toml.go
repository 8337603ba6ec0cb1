package config

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/domespec/pkg/engine"
	"github.com/matzehuels/domespec/pkg/errors"
)

// Job is one calculation request read from a TOML file:
//
//	project = "Planetarium North"
//
//	[params]
//	diameter_mm = 5000
//	fov_h_deg = 200
//	...
//
// Fields absent from [params] keep the values of [engine.DefaultParams].
type Job struct {
	Project string        `toml:"project"`
	Params  engine.Params `toml:"params"`
}

// LoadConstants reads engine constants from a TOML file. Keys absent from
// the file keep their default; unknown keys are an error.
func LoadConstants(path string) (engine.Constants, error) {
	c := engine.DefaultConstants()
	if err := decodeFile(path, &c); err != nil {
		return engine.Constants{}, err
	}
	if err := engine.ValidateConstants(c); err != nil {
		return engine.Constants{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "constants in %s", path)
	}
	return c, nil
}

// LoadJob reads a job file. The parameters are not validated.
func LoadJob(path string) (*Job, error) {
	job := &Job{Params: engine.DefaultParams()}
	if err := decodeFile(path, job); err != nil {
		return nil, err
	}
	return job, nil
}

// WriteConstants encodes c as TOML.
func WriteConstants(w io.Writer, c engine.Constants) error {
	return toml.NewEncoder(w).Encode(c)
}

// WriteJob encodes job as TOML.
func WriteJob(w io.Writer, job *Job) error {
	return toml.NewEncoder(w).Encode(job)
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "%s does not exist", path)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	md, err := toml.Decode(string(data), v)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

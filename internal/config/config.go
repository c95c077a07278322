// Package config holds the apidox settings shared by the command line and
// the optional .apidox.yml file.
package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/agentflare-ai/go-apidox/internal/apidox"
)

// DefaultFile is read from the working directory when no config path is
// given.
const DefaultFile = ".apidox.yml"

// Stdio is the path that stands for stdin or stdout.
const Stdio = "-"

// ErrNoTarget is returned when neither a file pair nor a directory pair is
// configured.
var ErrNoTarget = errors.Base("either --input and --output or --root and --target are required")

// Mode selects what a run converts.
type Mode int

const (
	// ModeFile converts one input file to one output file.
	ModeFile Mode = iota
	// ModeTree converts every source file below a root directory.
	ModeTree
)

func (m Mode) String() string {
	if m == ModeTree {
		return "tree"
	}
	return "file"
}

// Config is the full set of run settings.
type Config struct {
	Input                 string `yaml:"input" validate:"required_with=Output,excluded_with=Root"`
	Output                string `yaml:"output" validate:"required_with=Input"`
	InputTitle            string `yaml:"input_title"`
	NoSourceLink          bool   `yaml:"no_source_link"`
	FullSourceDescription bool   `yaml:"full_source_description"`

	Root        string `yaml:"root" validate:"required_with=Target"`
	Target      string `yaml:"target" validate:"required_with=Root"`
	IgnoreFile  string `yaml:"ignore_file"`
	Concurrency int    `yaml:"concurrency" validate:"gte=0,lte=256"`

	Watch   bool `yaml:"watch"`
	Verbose bool `yaml:"verbose"`
}

var validate = validator.New()

// Load reads the YAML file at path. An empty path loads DefaultFile when it
// exists and returns an empty Config otherwise.
func Load(path string) (Config, error) {
	var cfg Config
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, errors.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks flag pairing and value ranges. A flag missing its pair
// is reported as ErrNoTarget.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) {
			for _, f := range fields {
				if f.Tag() == "required_with" {
					return errors.Errorf("%w: --%s is missing", ErrNoTarget, strings.ToLower(f.Field()))
				}
			}
		}
		return errors.Errorf("invalid config: %w", err)
	}
	if c.Watch && (c.Input == "" || c.Input == Stdio) {
		return errors.New("invalid config: --watch needs an --input file")
	}
	return nil
}

// Mode reports the conversion mode, or ErrNoTarget.
func (c Config) Mode() (Mode, error) {
	switch {
	case c.Input != "" && c.Output != "":
		return ModeFile, nil
	case c.Root != "" && c.Target != "":
		return ModeTree, nil
	}
	return ModeFile, errors.WithStack(ErrNoTarget)
}

// Options returns the conversion options for a file mode run.
func (c Config) Options() apidox.Options {
	opts := apidox.Options{
		Input:                 c.Input,
		Output:                c.Output,
		InputTitle:            c.InputTitle,
		OmitSourceLink:        c.NoSourceLink,
		FullSourceDescription: c.FullSourceDescription,
	}
	if opts.Input == Stdio {
		opts.Input = ""
		if opts.InputTitle == "" {
			opts.InputTitle = "stdin"
		}
	}
	if opts.Output == Stdio {
		opts.Output = ""
	}
	return opts
}

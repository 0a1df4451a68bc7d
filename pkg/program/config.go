package program

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/fiberflow/pkg/errors"
)

// Format identifies the encoding of a program description.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Extensions accepted by [Load].
var Extensions = []string{".toml", ".yaml", ".yml", ".json"}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	if err := errors.ValidateFileExtension(path, Extensions...); err != nil {
		return "", err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return FormatJSON, nil
	}
}

// Config is the on-disk description of a program.
//
// In TOML, tensors and partitions are arrays of tables:
//
//	output     = "Z"
//	loop_order = ["K1", "M", "K0", "N"]
//
//	[[tensor]]
//	name  = "A"
//	ranks = ["K", "M"]
//
//	[[partition]]
//	rank = "K"
//	steps = [{ kind = "uniform_occupancy", leader = "A", size = 6 }]
//
// YAML and JSON use the plural keys "tensors" and "partitions".
type Config struct {
	Output     string            `toml:"output" yaml:"output" json:"output"`
	LoopOrder  []string          `toml:"loop_order" yaml:"loop_order" json:"loop_order"`
	Tensors    []TensorConfig    `toml:"tensor" yaml:"tensors" json:"tensors"`
	Partitions []PartitionConfig `toml:"partition" yaml:"partitions" json:"partitions"`
}

// TensorConfig declares one tensor.
type TensorConfig struct {
	Name  string   `toml:"name" yaml:"name" json:"name"`
	Ranks []string `toml:"ranks" yaml:"ranks" json:"ranks"`
}

// PartitionConfig lists the steps partitioning one rank.
type PartitionConfig struct {
	Rank  string       `toml:"rank" yaml:"rank" json:"rank"`
	Steps []StepConfig `toml:"steps" yaml:"steps" json:"steps"`
}

// StepConfig is one partitioning step.
type StepConfig struct {
	Kind   string `toml:"kind" yaml:"kind" json:"kind"`
	Size   int    `toml:"size" yaml:"size" json:"size"`
	Leader string `toml:"leader,omitempty" yaml:"leader,omitempty" json:"leader,omitempty"`
}

// Parse decodes a program description in the given format.
func Parse(data []byte, format Format) (*Config, error) {
	var cfg Config
	var err error
	switch format {
	case FormatTOML:
		var md toml.MetaData
		md, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
		if err == nil {
			if keys := md.Undecoded(); len(keys) > 0 {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "decode %s: unknown keys %v", format, keys)
			}
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&cfg); err == io.EOF {
			err = nil // empty document
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", format)
	}
	return &cfg, nil
}

// Encode writes c in the given format.
func (c *Config) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(c)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
}

// Load reads and decodes a program description, choosing the decoder from
// the file extension.
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "program file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return Parse(data, format)
}

// LoadProgram loads and validates a program description.
func LoadProgram(path string) (*Program, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return cfg.Program()
}

// Program validates the configuration and builds a [Program].
func (c *Config) Program() (*Program, error) {
	part := NewPartitioning()
	for _, pc := range c.Partitions {
		steps := make([]Step, len(pc.Steps))
		for i, s := range pc.Steps {
			steps[i] = Step{Kind: StepKind(s.Kind), Size: s.Size, Leader: s.Leader}
		}
		if err := part.Add(pc.Rank, steps...); err != nil {
			return nil, err
		}
	}

	tensors := make([]Tensor, len(c.Tensors))
	for i, tc := range c.Tensors {
		tensors[i] = NewTensor(tc.Name, tc.Ranks...)
	}
	return New(tensors, c.Output, c.LoopOrder, part)
}

// ConfigOf returns the configuration describing p. Parsing the result
// yields an equivalent program.
func ConfigOf(p *Program) *Config {
	cfg := &Config{
		Output:    p.output,
		LoopOrder: p.loop.Ranks(),
	}
	for _, t := range p.tensors {
		cfg.Tensors = append(cfg.Tensors, TensorConfig{Name: t.root, Ranks: t.Ranks()})
	}
	for _, r := range p.part.Ranks() {
		pc := PartitionConfig{Rank: r}
		for _, s := range p.part.Steps(r) {
			pc.Steps = append(pc.Steps, StepConfig{Kind: string(s.Kind), Size: s.Size, Leader: s.Leader})
		}
		cfg.Partitions = append(cfg.Partitions, pc)
	}
	return cfg
}

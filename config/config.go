package config

import (
	"fmt"
	"os"

	"github.com/docker/go-units"
	"gopkg.in/yaml.v3"

	"github.com/pattyshack/aotlink/binformat"
	"github.com/pattyshack/aotlink/platform"
	"github.com/pattyshack/aotlink/platform/aarch64"
	"github.com/pattyshack/aotlink/platform/amd64"
)

type Compression string

const (
	NoCompression  = Compression("none")
	Lz4Compression = Compression("lz4")
	XzCompression  = Compression("xz")
)

func (compression Compression) Validate() error {
	switch compression {
	case NoCompression, Lz4Compression, XzCompression:
		return nil
	default:
		return fmt.Errorf("unsupported compression (%s)", string(compression))
	}
}

// Target describes the runtime configuration the generated code is compiled
// against.
type Target struct {
	Architecture               platform.ArchitectureName    `yaml:"architecture"`
	OperatingSystem            platform.OperatingSystemName `yaml:"os"`
	GarbageCollector           binformat.GarbageCollector   `yaml:"gc"`
	CompressedClassPointers    *bool                        `yaml:"compressed_class_pointers"`
	Crc32Intrinsics            *bool                        `yaml:"crc32_intrinsics"`
	InlineContiguousAllocation *bool                        `yaml:"inline_contiguous_allocation"`

	// Human readable size, e.g. "64MiB".  Empty means unlimited.
	CodeSizeLimit string `yaml:"code_size_limit"`
}

type Output struct {
	Path        string      `yaml:"path"`
	Compression Compression `yaml:"compression"`
}

type Config struct {
	Target Target `yaml:"target"`
	Output Output `yaml:"output"`
}

func boolOrDefault(value *bool, defaultValue bool) *bool {
	if value == nil {
		return &defaultValue
	}
	return value
}

func (config *Config) setDefaults() {
	if config.Target.Architecture == "" {
		config.Target.Architecture = platform.Amd64
	}

	if config.Target.OperatingSystem == "" {
		config.Target.OperatingSystem = platform.Linux
	}

	if config.Target.GarbageCollector == "" {
		config.Target.GarbageCollector = binformat.G1GC
	}

	config.Target.CompressedClassPointers = boolOrDefault(
		config.Target.CompressedClassPointers,
		true)
	config.Target.Crc32Intrinsics = boolOrDefault(
		config.Target.Crc32Intrinsics,
		true)
	config.Target.InlineContiguousAllocation = boolOrDefault(
		config.Target.InlineContiguousAllocation,
		true)

	if config.Output.Compression == "" {
		config.Output.Compression = NoCompression
	}
}

func (config *Config) Validate() error {
	err := config.Target.Architecture.Validate()
	if err != nil {
		return err
	}

	err = config.Target.OperatingSystem.Validate()
	if err != nil {
		return err
	}

	err = config.Target.GarbageCollector.Validate()
	if err != nil {
		return err
	}

	_, err = config.codeSizeLimit()
	if err != nil {
		return err
	}

	return config.Output.Compression.Validate()
}

func (config *Config) codeSizeLimit() (int64, error) {
	if config.Target.CodeSizeLimit == "" {
		return 0, nil
	}

	limit, err := units.RAMInBytes(config.Target.CodeSizeLimit)
	if err != nil {
		return 0, fmt.Errorf(
			"invalid code_size_limit (%s): %w",
			config.Target.CodeSizeLimit,
			err)
	}

	if limit <= 0 {
		return 0, fmt.Errorf(
			"code_size_limit must be positive (%s)",
			config.Target.CodeSizeLimit)
	}

	return limit, nil
}

func (config *Config) Platform() platform.Platform {
	switch config.Target.Architecture {
	case platform.Amd64:
		return amd64.NewPlatform(config.Target.OperatingSystem)
	case platform.Aarch64:
		return aarch64.NewPlatform(config.Target.OperatingSystem)
	default:
		panic("unhandled architecture: " + string(config.Target.Architecture))
	}
}

// ContainerConfig converts a validated config.
func (config *Config) ContainerConfig() binformat.ContainerConfig {
	limit, err := config.codeSizeLimit()
	if err != nil {
		panic(err) // rejected by Validate
	}

	return binformat.ContainerConfig{
		Platform:                   config.Platform(),
		GarbageCollector:           config.Target.GarbageCollector,
		CompressedClassPointers:    *config.Target.CompressedClassPointers,
		Crc32Intrinsics:            *config.Target.Crc32Intrinsics,
		InlineContiguousAllocation: *config.Target.InlineContiguousAllocation,
		CodeSizeLimit:              limit,
	}
}

func Parse(content []byte) (*Config, error) {
	config := &Config{}
	err := yaml.Unmarshal(content, config)
	if err != nil {
		return nil, err
	}

	config.setDefaults()
	err = config.Validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}

func Load(fileName string) (*Config, error) {
	content, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	return Parse(content)
}

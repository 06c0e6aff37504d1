package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pattyshack/aotlink/compiled"
)

type MarkSpec struct {
	Kind   string `yaml:"kind"` // name or raw integer
	Offset int    `yaml:"offset"`
}

type MethodSpec struct {
	Name string `yaml:"name"`

	// Hex encoded machine code; whitespace is ignored.
	Code string `yaml:"code"`

	// Size of a zero filled code body, used when Code is empty.
	CodeSize int `yaml:"code_size"`

	Marks []MarkSpec `yaml:"marks"`
}

// Job is a complete link request: target configuration plus the code
// generator's output for every method.
type Job struct {
	Config `yaml:",inline"`

	Methods []MethodSpec `yaml:"methods"`
}

func (spec MethodSpec) code() ([]byte, error) {
	if spec.Code == "" {
		if spec.CodeSize < 0 {
			return nil, fmt.Errorf("method (%s) has negative code_size", spec.Name)
		}
		return make([]byte, spec.CodeSize), nil
	}

	code, err := hex.DecodeString(strings.Join(strings.Fields(spec.Code), ""))
	if err != nil {
		return nil, fmt.Errorf("method (%s) has invalid code: %w", spec.Name, err)
	}

	if spec.CodeSize != 0 && spec.CodeSize != len(code) {
		return nil, fmt.Errorf(
			"method (%s) code_size %d does not match code length %d",
			spec.Name,
			spec.CodeSize,
			len(code))
	}

	return code, nil
}

func (spec MethodSpec) MethodInfo() (*compiled.MethodInfo, error) {
	code, err := spec.code()
	if err != nil {
		return nil, err
	}

	info := compiled.NewMethodInfo(spec.Name, code)
	for _, mark := range spec.Marks {
		kind, err := compiled.ParseMarkKind(mark.Kind)
		if err != nil {
			return nil, fmt.Errorf("method (%s): %w", spec.Name, err)
		}

		info.AddMark(kind, mark.Offset)
	}

	return info, nil
}

func (job *Job) MethodInfos() ([]*compiled.MethodInfo, error) {
	methods := make([]*compiled.MethodInfo, 0, len(job.Methods))
	for _, spec := range job.Methods {
		info, err := spec.MethodInfo()
		if err != nil {
			return nil, err
		}

		methods = append(methods, info)
	}

	return methods, nil
}

func ParseJob(content []byte) (*Job, error) {
	job := &Job{}
	err := yaml.Unmarshal(content, job)
	if err != nil {
		return nil, err
	}

	job.setDefaults()
	err = job.Validate()
	if err != nil {
		return nil, err
	}

	return job, nil
}

func LoadJob(fileName string) (*Job, error) {
	content, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	return ParseJob(content)
}

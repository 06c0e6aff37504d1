package config

import (
	"testing"

	"github.com/pattyshack/aotlink/binformat"
	"github.com/pattyshack/aotlink/compiled"
	"github.com/pattyshack/aotlink/platform"
)

func TestParseDefaults(t *testing.T) {
	config, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatal(err)
	}

	containerConfig := config.ContainerConfig()
	if containerConfig.Platform.ArchitectureName() != platform.Amd64 ||
		containerConfig.Platform.OperatingSystemName() != platform.Linux ||
		containerConfig.GarbageCollector != binformat.G1GC ||
		!containerConfig.CompressedClassPointers ||
		!containerConfig.Crc32Intrinsics ||
		!containerConfig.InlineContiguousAllocation ||
		containerConfig.CodeSizeLimit != 0 {

		t.Fatalf("unexpected defaults %+v", containerConfig)
	}

	if config.Output.Compression != NoCompression {
		t.Fatalf("unexpected compression %s", config.Output.Compression)
	}
}

func TestParseTarget(t *testing.T) {
	content := `
target:
  architecture: aarch64
  os: darwin
  gc: parallel
  compressed_class_pointers: false
  crc32_intrinsics: false
  code_size_limit: 64MiB
output:
  path: out.aot
  compression: lz4
`
	config, err := Parse([]byte(content))
	if err != nil {
		t.Fatal(err)
	}

	containerConfig := config.ContainerConfig()
	if containerConfig.Platform.ArchitectureName() != platform.Aarch64 ||
		containerConfig.Platform.OperatingSystemName() != platform.Darwin ||
		containerConfig.GarbageCollector != binformat.ParallelGC ||
		containerConfig.CompressedClassPointers ||
		containerConfig.Crc32Intrinsics ||
		!containerConfig.InlineContiguousAllocation ||
		containerConfig.CodeSizeLimit != 64*1024*1024 {

		t.Fatalf("unexpected config %+v", containerConfig)
	}

	if config.Output.Path != "out.aot" || config.Output.Compression != Lz4Compression {
		t.Fatalf("unexpected output %+v", config.Output)
	}
}

func TestParseRejectsInvalidTarget(t *testing.T) {
	invalid := []string{
		"target: {architecture: sparc}",
		"target: {os: plan9}",
		"target: {gc: refcount}",
		"target: {code_size_limit: lots}",
		"output: {compression: zip}",
		"target: [",
	}

	for _, content := range invalid {
		_, err := Parse([]byte(content))
		if err == nil {
			t.Errorf("expected error for %q", content)
		}
	}
}

func TestParseJob(t *testing.T) {
	content := `
target:
  gc: g1
methods:
  - name: a.A.run()V
    code: |
      55 48 89 e5
      90 90 90 c3
    marks:
      - {kind: verified_entry, offset: 0}
      - {kind: poll_far, offset: 4}
  - name: a.A.other()V
    code_size: 32
    marks:
      - {kind: "999", offset: 8}
`
	job, err := ParseJob([]byte(content))
	if err != nil {
		t.Fatal(err)
	}

	methods, err := job.MethodInfos()
	if err != nil {
		t.Fatal(err)
	}

	if len(methods) != 2 {
		t.Fatalf("unexpected method count %d", len(methods))
	}

	first := methods[0]
	if first.Name != "a.A.run()V" || len(first.Code) != 8 || first.Code[7] != 0xc3 {
		t.Fatalf("unexpected method %+v", first)
	}

	if len(first.Marks) != 2 ||
		first.Marks[1] != (compiled.Mark{Kind: compiled.PollFar, Offset: 4}) {

		t.Fatalf("unexpected marks %v", first.Marks)
	}

	second := methods[1]
	if len(second.Code) != 32 || second.Marks[0].Kind != compiled.MarkKind(999) {
		t.Fatalf("unexpected method %+v", second)
	}
}

func TestJobRejectsBadMethods(t *testing.T) {
	invalid := []string{
		"methods: [{name: m, code: zz}]",
		"methods: [{name: m, code: '90 90', code_size: 4}]",
		"methods: [{name: m, code_size: 4, marks: [{kind: poll_sideways}]}]",
		"methods: [{name: m, code_size: -1}]",
	}

	for _, content := range invalid {
		job, err := ParseJob([]byte(content))
		if err != nil {
			t.Fatal(err)
		}

		_, err = job.MethodInfos()
		if err == nil {
			t.Errorf("expected error for %q", content)
		}
	}
}

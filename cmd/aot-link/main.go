package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/docker/go-units"
	"github.com/pattyshack/gt/parseutil"

	"github.com/pattyshack/aotlink/artifact"
	"github.com/pattyshack/aotlink/binformat"
	"github.com/pattyshack/aotlink/compiled"
	"github.com/pattyshack/aotlink/config"
	"github.com/pattyshack/aotlink/linker"
)

func main() {
	output := flag.String("o", "", "artifact output path (overrides the job's output.path)")
	verbose := flag.Bool("v", false, "print every symbol and relocation")
	flag.Parse()

	failed := false
	for _, fileName := range flag.Args() {
		fmt.Println("=====================")
		fmt.Println("Job:", fileName)
		fmt.Println("---------------------")

		if !run(fileName, *output, *verbose) {
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

func run(fileName string, output string, verbose bool) bool {
	job, err := config.LoadJob(fileName)
	if err != nil {
		fmt.Println("LoadJob error:", err)
		return false
	}

	methods, err := job.MethodInfos()
	if err != nil {
		fmt.Println("MethodInfos error:", err)
		return false
	}

	container := binformat.NewContainer(job.ContainerConfig())

	emitter := &parseutil.Emitter{}
	if !linker.Link(container, methods, emitter) {
		errs := emitter.Errors()
		fmt.Println("---------------------------")
		fmt.Println("Found", len(errs), "errors:")
		fmt.Println("---------------------------")
		for idx, err := range errs {
			fmt.Printf("error %d: %s\n", idx, err)
		}
		return false
	}

	printSummary(container, methods, verbose)

	if output == "" {
		output = job.Output.Path
	}

	if output == "" {
		return true
	}

	return writeArtifact(container, output, job.Output.Compression)
}

func printSummary(
	container *binformat.Container,
	methods []*compiled.MethodInfo,
	verbose bool,
) {
	target := container.Platform()
	fmt.Printf(
		"Target: %s/%s gc=%s build=%s\n",
		target.ArchitectureName(),
		target.OperatingSystemName(),
		container.Config().GarbageCollector,
		container.BuildId())

	for _, section := range container.Sections() {
		fmt.Printf(
			"Section %-6s %-8s %s\n",
			section.Name,
			section.Kind,
			units.HumanSize(float64(section.Len())))
	}

	fmt.Println("Methods:", len(methods))
	fmt.Println("Symbols:", container.Symbols().Len())
	fmt.Println("Relocations:", container.NumRelocations())

	if !verbose {
		return
	}

	fmt.Println("---------------------")
	for _, symbol := range container.Symbols().Symbols() {
		fmt.Println("symbol", symbol)
	}

	store := container.RelocationStore(container.CodeContainer())
	for _, method := range methods {
		start := method.CodeSectionOffset()
		relocs := store.InRange(start, start+len(method.Code))
		fmt.Printf("method %s @%d (%d relocations)\n", method.Name, start, len(relocs))
		for _, reloc := range relocs {
			fmt.Println("  ", reloc)
		}
	}
}

func writeArtifact(
	container *binformat.Container,
	output string,
	compression config.Compression,
) bool {
	file, err := os.Create(output)
	if err != nil {
		fmt.Println("Create error:", err)
		return false
	}

	err = artifact.Write(file, container, compression)
	if err != nil {
		file.Close()
		fmt.Println("Write error:", err)
		return false
	}

	err = file.Close()
	if err != nil {
		fmt.Println("Close error:", err)
		return false
	}

	info, err := os.Stat(output)
	if err == nil {
		fmt.Printf(
			"Wrote %s (%s, %s)\n",
			output,
			units.HumanSize(float64(info.Size())),
			compression)
	}
	return true
}

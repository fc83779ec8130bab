package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/yashodipmore/RISC-V-Matrix-Extension-with-SAIL-to-CGEN-Translation-Pipeline/cpu"
	"github.com/yashodipmore/RISC-V-Matrix-Extension-with-SAIL-to-CGEN-Translation-Pipeline/emulator"
	"github.com/yashodipmore/RISC-V-Matrix-Extension-with-SAIL-to-CGEN-Translation-Pipeline/io"
)

const (
	DEMO_A      = 0x1000
	DEMO_B      = 0x1020
	DEMO_RESULT = 0x1040
)

// demo computes C = A x B with the operands preset in memory.
var demo = fmt.Sprintf(`; C = A x B
.matrix %#x 1 2 3 4
.matrix %#x 5 6 7 8
.reg x1 %#x
.reg x2 %#x
.reg x3 %#x
matmul x1, x2, x3
`, DEMO_A, DEMO_B, DEMO_RESULT, DEMO_A, DEMO_B)

// region is a span of memory to dump after execution.
type region struct {
	Addr uint32
	Size int
}

// regions collects repeated ADDR:LEN flags.
type regions []region

func (r *regions) String() string {
	var parts []string
	for _, reg := range *r {
		parts = append(parts, fmt.Sprintf("%#x:%v", reg.Addr, reg.Size))
	}
	return strings.Join(parts, ",")
}

func (r *regions) Set(value string) (err error) {
	addr_text, size_text, ok := strings.Cut(value, ":")
	if !ok {
		err = fmt.Errorf("%v: expected ADDR:LEN", value)
		return
	}

	addr, err := strconv.ParseUint(addr_text, 0, 32)
	if err != nil {
		return
	}

	size, err := strconv.ParseUint(size_text, 0, 32)
	if err != nil {
		return
	}
	if size == 0 {
		err = fmt.Errorf("%v: empty region", value)
		return
	}

	*r = append(*r, region{Addr: uint32(addr), Size: int(size)})
	return
}

// dumpWords prints a captured segment, four words per line.
func dumpWords(addr uint32, data []byte) {
	n := 0
	for word := range io.Words(data) {
		if n%4 == 0 {
			if n != 0 {
				fmt.Println()
			}
			fmt.Printf("%08x:", addr+uint32(n*cpu.WORD_BYTES))
		}
		fmt.Printf(" %08x", uint32(word))
		n++
	}
	fmt.Println()
}

func main() {
	var compile string
	var size uint
	var input string
	var output string
	var dumps regions
	var aligned bool
	var listing bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".s file to assemble and run")
	flag.UintVar(&size, "m", cpu.MEMORY_SIZE_DEFAULT, "Memory size, in bytes")
	flag.StringVar(&input, "i", "", "Memory image directory to load")
	flag.StringVar(&output, "o", "", "Memory image directory to save dumped regions to")
	flag.Var(&dumps, "d", "Dump memory region ADDR:LEN after execution (repeatable)")
	flag.BoolVar(&aligned, "a", false, "Require word aligned matmul operands")
	flag.BoolVar(&listing, "l", false, "Print the program listing, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	emu, err := emulator.NewEmulator(size)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	defer emu.Close()

	emu.Verbose = verbose
	emu.Aligned = aligned

	asm := &cpu.Assembler{Verbose: verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	// Assemble the instruction stream.
	source := compile
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	} else {
		source = "demo"
		emu.Program, err = asm.Parse(strings.NewReader(demo))
		if err != nil {
			log.Fatalf("%v: %v", source, err)
		}
	}

	if listing {
		err = emu.Program.Listing(os.Stdout)
		if err != nil {
			log.Fatalf("%v: %v", source, err)
		}
		return
	}

	if len(input) != 0 {
		err = emu.Image.Unmarshal(io.DirFS(input))
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
	}

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	err = emu.Run()
	if err != nil {
		if verbose {
			log.Print(emu.Cpu.String())
		}
		log.Fatalf("%v: %v", source, err)
	}

	if len(compile) == 0 {
		for _, name_addr := range []struct {
			name string
			addr uint32
		}{{"A", DEMO_A}, {"B", DEMO_B}, {"C", DEMO_RESULT}} {
			m, err := emu.Cpu.ReadMatrix(name_addr.addr)
			if err != nil {
				log.Fatalf("%v: %v", source, err)
			}
			fmt.Printf("%v = %v\n", name_addr.name, m)
		}
	}

	dump := &io.Image{}
	for _, reg := range dumps {
		err = dump.Capture(emu.Cpu.Memory, reg.Addr, reg.Size)
		if err != nil {
			log.Fatalf("%v: %v", source, err)
		}
	}

	for addr, data := range dump.All() {
		dumpWords(addr, data)
	}

	if len(output) != 0 {
		err = dump.Marshal(io.DirFS(output))
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
	}

	if verbose {
		log.Printf("%v: %v ticks, %v multiply-accumulates", source, emu.Ticks(), emu.Cpu.Macs)
	}
}

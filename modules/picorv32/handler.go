package picorv32

import (
	"fmt"
	"strings"

	"github.com/vk/socforge/internal/model"
)

// irqSave is the base of the register save window used by the IRQ stub.
const irqSave = "0x200"

// ResetHandler is the entry stub for cores without interrupts: set the stack
// to the top of mem, call main and spin.
func ResetHandler(mem *model.Region) string {
	return ".text\n.align  2\n_start:\n\tli  sp," + mem.Origin + "+" + mem.Length + "\n\tjal main\n_hw_shutdown:\n\tjal _hw_shutdown"
}

var abiNames = []string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2", "s0", "s1",
	"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
	"s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11",
	"t3", "t4", "t5", "t6",
}

var insnMacros = []string{
	`#define r_type_insn(_f7, _rs2, _rs1, _f3, _rd, _opc) \`,
	`.word (((_f7) << 25) | ((_rs2) << 20) | ((_rs1) << 15) | ((_f3) << 12) | ((_rd) << 7) | ((_opc) << 0))`,
	`#define retirq_insn() \`,
	`r_type_insn(0b0000010, 0, 0, 0b000, 0, 0b0001011)`,
	`#define maskirq_insn(_rd, _rs) \`,
	`r_type_insn(0b0000011, 0, regnum_ ## _rs, 0b110, regnum_ ## _rd, 0b0001011)`,
	`#define waitirq_insn(_rd) \`,
	`r_type_insn(0b0000100, 0, 0, 0b100, regnum_ ## _rd, 0b0001011)`,
}

// ResetHandlerIRQ is the entry stub for cores with interrupts. The handler at
// irqAddr saves x1..x31 (gp in slot 0) to the window at 0x200, calls irq and
// restores them before retirq.
func ResetHandlerIRQ(mem *model.Region, irqAddr string) string {
	var lines []string
	regnum := func(name string, n int) {
		lines = append(lines, fmt.Sprintf("#define regnum_%-4s%2d", name, n))
	}

	for i := range 4 {
		regnum(fmt.Sprintf("q%d", i), i)
	}
	lines = append(lines, "")
	for i := range 32 {
		regnum(fmt.Sprintf("x%d", i), i)
	}
	lines = append(lines, "")
	for i, name := range abiNames {
		regnum(name, i)
	}
	lines = append(lines, "")
	regnum("fp", 8)
	lines = append(lines, "")
	lines = append(lines, insnMacros...)

	lines = append(lines,
		".text",
		".align  2",
		"_start:",
		"li  sp,"+mem.Origin+"+"+mem.Length,
		"maskirq_insn(zero, zero)",
		"jal main",
		".balign "+irqAddr,
		"_irq:",
	)
	slot := func(op, reg string, n int) string {
		return fmt.Sprintf("%s %-5s%2d*4+%s(zero)", op, reg+",", n, irqSave)
	}
	lines = append(lines, slot("sw", "gp", 0))
	for i := 1; i < 32; i++ {
		lines = append(lines, slot("sw", fmt.Sprintf("x%d", i), i))
	}
	lines = append(lines, "jal ra, irq")
	for i := 1; i < 32; i++ {
		lines = append(lines, slot("lw", fmt.Sprintf("x%d", i), i))
	}
	lines = append(lines,
		"retirq_insn()",
		"_hw_shutdown:",
		"jal _hw_shutdown",
		".balign "+irqSave,
		"irq_regs:",
		"// registers are saved to this memory region during interrupt handling",
		"// the program counter is saved as register 0",
		".fill 32,4",
		"// stack for the interrupt handler",
		".fill 128,4",
		"irq_stack:",
	)
	return strings.Join(lines, "\n") + "\n"
}

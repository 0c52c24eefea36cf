package picorv32

import (
	"fmt"
	"strings"

	"github.com/vk/socforge/internal/model"
)

// LinkerScript renders the MEMORY and SECTIONS blocks for inst. The program
// region named by inst.Memory holds the reset handler and all code; every
// other region only gets an upper-cased PROVIDE symbol at its origin.
func LinkerScript(inst *model.Instance) string {
	var b strings.Builder
	b.WriteString("MEMORY {\n")
	for name, r := range inst.Map.All() {
		fmt.Fprintf(&b, "\t.%s (rwx) : ORIGIN = %s, LENGTH = %s\n", name, r.Origin, r.Length)
	}
	b.WriteString("}\n\n")

	b.WriteString("SECTIONS {\n")
	fmt.Fprintf(&b, "\t.%s : {\n\t\t. = 0x0;\n\t\t%s_reset_handler.o;\n\t\tstart*(.text);\n\t\t*(.text);\n\t\t*(*);\n\t\tend = .;\n\t}\n", inst.Memory, inst.Name)
	for name, r := range inst.Map.All() {
		if name == inst.Memory {
			continue
		}
		fmt.Fprintf(&b, "\t.%s %s: {PROVIDE(%s = .);}\n", name, r.Origin, strings.ToUpper(name))
	}
	b.WriteString("}\n\n")
	b.WriteString("ENTRY(main)")
	return b.String()
}

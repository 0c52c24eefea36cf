// Package emit serializes a resolved design into the files the downstream
// toolchain consumes: the top-level module, its parameter header, pin
// constraints, the IP script, staged library sources and project scripts.
package emit

import (
	"strings"

	"github.com/vk/socforge/internal/interconnect"
)

// TopName is the name of the generated top-level module.
const TopName = "top"

// lines accumulates output one line at a time; every line ends with "\n".
type lines struct {
	b strings.Builder
}

func (l *lines) add(ss ...string) {
	for _, s := range ss {
		l.b.WriteString(s)
		l.b.WriteByte('\n')
	}
}

func (l *lines) bytes() []byte {
	return []byte(l.b.String())
}

// Top renders the top-level module for net.
func Top(name string, net *interconnect.Netlist) []byte {
	var out lines

	out.add("module "+name+" (", strings.Join(net.Ports, ","), ");")
	out.add("`include \"parameters.vh\"")
	out.add(net.PortDecls...)

	for _, w := range net.Wires {
		out.add("//" + w.Instance + "\t(" + w.Module + ")")
		out.add(w.Decls...)
		out.add("\n")
	}
	out.add("\n")

	out.add(net.Intrinsics...)
	out.add("\n")

	out.add(net.Static...)
	out.add("\n")

	out.add(net.Contention...)
	out.add(net.Valid...)
	out.add(net.Ready...)
	out.add("\n")

	out.add("\n\n")
	for _, inst := range net.Instances {
		instantiate(&out, inst)
	}

	out.add("endmodule")
	return out.bytes()
}

func instantiate(out *lines, inst interconnect.Instantiation) {
	out.add(inst.Module)
	if len(inst.Params) > 0 {
		out.add("#(")
		for i, p := range inst.Params {
			out.add("." + p.Name + "(" + p.Value + ")" + comma(i, len(inst.Params)))
		}
		out.add(")")
	}
	out.add(inst.Instance, "(")
	for i, p := range inst.Ports {
		out.add("." + p.Name + "(" + p.Value + ")" + comma(i, len(inst.Ports)))
	}
	out.add(");", "\n")
}

func comma(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

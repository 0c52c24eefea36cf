package interconnect

import (
	"fmt"
	"strings"

	"github.com/vk/socforge/internal/model"
)

func (r *resolver) declarePorts() error {
	for _, port := range r.system.Ports {
		io, err := r.catalog.Board.Port(port)
		if err != nil {
			return err
		}
		refs := []string{"BOARD:" + port}
		if !io.HasWidth {
			refs = refs[:0]
			for sig := range io.Signals.All() {
				refs = append(refs, "BOARD:"+port+":"+sig)
			}
		}
		for _, ref := range refs {
			s, decl, err := r.declare(ref)
			if err != nil {
				return err
			}
			r.net.Ports = append(r.net.Ports, s.Name)
			r.net.PortDecls = append(r.net.PortDecls, decl)
		}
	}
	return nil
}

func (r *resolver) declareWires() error {
	for name, inst := range r.system.Instances.All() {
		module, err := r.catalog.Module(inst.Module)
		if err != nil {
			return fmt.Errorf("instance %q: %w", name, err)
		}
		block := WireBlock{Instance: name, Module: inst.Module}
		for ifName, iface := range module.Interfaces.All() {
			refs, err := r.protocolRefs("MODULE:"+name+":"+ifName, iface)
			if err != nil {
				return fmt.Errorf("instance %q: %w", name, err)
			}
			for _, ref := range refs {
				_, decl, err := r.declare(ref)
				if err != nil {
					return err
				}
				block.Decls = append(block.Decls, decl)
			}
		}
		r.net.Wires = append(r.net.Wires, block)
	}
	return nil
}

// expandIntrinsics substitutes every %{param} of an intrinsic template.
// Values containing a colon are references and are replaced by their names.
func (r *resolver) expandIntrinsics() error {
	for _, in := range r.system.Intrinsics {
		text, ok := r.catalog.Definitions.Intrinsics[in.Type]
		if !ok {
			return fmt.Errorf("%w: %q is not a defined intrinsic", model.ErrSchema, in.Type)
		}
		for param, v := range in.Params.Map.All() {
			value := v.Text()
			if strings.Contains(value, ":") {
				name, err := r.signals.Name(value)
				if err != nil {
					return fmt.Errorf("intrinsic %s: %w", in.Type, err)
				}
				value = name
			}
			text = strings.ReplaceAll(text, "%{"+param+"}", value)
		}
		r.net.Intrinsics = append(r.net.Intrinsics, text)
	}
	return nil
}

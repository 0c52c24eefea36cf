package interconnect

import (
	"fmt"

	"github.com/vk/socforge/internal/model"
	"github.com/vk/socforge/internal/signal"
)

// instantiate binds every module port to its wire, or to the target of an
// OVERRIDES entry naming the port's reference.
func (r *resolver) instantiate() error {
	for name, inst := range r.system.Instances.All() {
		module, err := r.catalog.Module(inst.Module)
		if err != nil {
			return fmt.Errorf("instance %q: %w", name, err)
		}
		p, ok := r.params[name]
		if !ok {
			return fmt.Errorf("%w: instance %q has no resolved parameters", model.ErrResolution, name)
		}
		in := Instantiation{Instance: name, Module: inst.Module}
		for _, param := range p.Names() {
			in.Params = append(in.Params, Binding{Name: param, Value: signal.ParameterName(name, param)})
		}

		for ifName, iface := range module.Interfaces.All() {
			ref := "MODULE:" + name + ":" + ifName
			refs, err := r.protocolRefs(ref, iface)
			if err != nil {
				return fmt.Errorf("instance %q: %w", name, err)
			}
			for _, sigRef := range refs {
				port := ifName
				if iface.IsProtocol() {
					port += "_" + sigRef[len(ref)+1:]
				}
				b, err := r.bind(port, sigRef)
				if err != nil {
					return fmt.Errorf("instance %q: %w", name, err)
				}
				in.Ports = append(in.Ports, b)
			}
		}
		r.net.Instances = append(r.net.Instances, in)
	}
	return nil
}

func (r *resolver) bind(port, ref string) (Binding, error) {
	own, err := r.signals.Resolve(ref)
	if err != nil {
		return Binding{}, err
	}
	target := ref
	for _, o := range r.system.Overrides {
		if o.From == ref {
			target = o.To
			break
		}
	}
	if signal.IsNumeral(target) {
		return Binding{Name: port, Value: target}, nil
	}
	name, err := r.signals.Name(target)
	if err != nil {
		return Binding{}, err
	}
	if own.Direction == model.Source {
		r.net.Drivers = append(r.net.Drivers, Driver{Wire: name, Source: own.Instance + "." + port, Kind: Port})
	}
	return Binding{Name: port, Value: name}, nil
}

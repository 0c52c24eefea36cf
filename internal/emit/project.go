package emit

// Toolchain project scripts. The project lives in ./<name>/ below the build
// directory.

const synthJobs = "24"

// CreateProject renders create_project.tcl. ipTcl is appended verbatim.
func CreateProject(name, part string, ipTcl []byte) []byte {
	var out lines
	out.add("create_project -force " + name + " ./" + name + "/ -part " + part)
	out.add(
		"",
		"add_files -fileset constrs_1 ./constraints.xdc",
		"add_files -scan_for_includes .",
		"update_compile_order -fileset sources_1",
		"set_property top "+TopName+" [current_fileset]",
		"update_compile_order -fileset sources_1",
	)
	return append(out.bytes(), ipTcl...)
}

// CompileProject renders compile_project.tcl: synthesis, implementation and
// a bitstream with a binary file.
func CompileProject(name string) []byte {
	var out lines
	out.add(
		"open_project  ./"+name+"/"+name+".xpr",
		"update_compile_order -fileset sources_1",
		"reset_run synth_1",
		"launch_runs synth_1 -jobs "+synthJobs+" ",
		"wait_on_run synth_1",
		"set_property STEPS.WRITE_BITSTREAM.ARGS.BIN_FILE true [get_runs impl_1]",
		"launch_runs -to_step write_bitstream impl_1 -jobs "+synthJobs,
		"wait_on_run impl_1",
	)
	return out.bytes()
}

// RunScript renders run.sh, which runs both scripts in batch mode.
func RunScript() []byte {
	var out lines
	out.add(
		"vivado -nojournal -nolog -mode batch -source ./create_project.tcl ",
		"vivado -nojournal -nolog -mode batch -source ./compile_project.tcl ",
	)
	return out.bytes()
}

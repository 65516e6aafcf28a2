package codegen

import "vslc.dev/backend/pkg/tree"

// generateMain emits the process entry point. It validates argc against
// first's declared parameter count, parses each argv string into an int64
// via libc's strtol, and calls first with those values - right to left, as
// generateFunctionCall expects its own arguments.
//
// first is the topmost (first-declared) function in the source, per
// spec.md's entry-point rule.
func (g *Generator) generateMain(first *tree.Symbol) error {
	g.label("main")

	g.instr("pushq", "%rbp")
	g.instr2("movq", "%rsp", "%rbp")

	expected := funcParamCount(first)

	g.instr2("subq", "$1", "%rdi") // argc counts the binary name itself
	g.emit("cmpq\t$%d, %%rdi", expected)
	g.emit("jne\tABORT")

	if expected > 0 {
		// Walk argv right to left: move to the last argument first, then
		// step backwards by 8 bytes each iteration.
		g.emit("addq\t$%d, %%rsi", expected*8)
		g.instr2("movq", "%rdi", "%rcx")

		g.label("PARSE_ARGV")
		g.instr("pushq", "%rsi")
		g.instr("pushq", "%rcx")

		g.emit("movq\t(%%rsi), %%rdi")
		g.instr2("movq", "$0", "%rsi")
		g.instr2("movq", "$10", "%rdx")
		g.emit("call\tstrtol")

		g.instr("popq", "%rcx")
		g.instr("popq", "%rsi")
		g.instr("pushq", "%rax")

		g.instr2("subq", "$8", "%rsi")
		g.emit("loop\tPARSE_ARGV")

		for i := 0; i < expected && i < numRegisterParams; i++ {
			g.instr("popq", registerParams[i])
		}
	}

	g.emit("call\t.%s", first.Name)
	g.instr2("movq", "%rax", "%rdi")
	g.emit("call\texit")

	g.label("ABORT")
	g.emit("leaq\terrout(%%rip), %%rdi")
	g.emit("call\tputs")
	g.instr2("movq", "$1", "%rdi")
	g.emit("call\texit")

	g.blank()
	return nil
}

// generateSafePrintf wraps printf with a 16-byte stack realignment, since
// the System V ABI requires %rsp to be 16-byte aligned at a call and the
// compiled code otherwise makes no such guarantee at every call site.
func (g *Generator) generateSafePrintf() {
	g.label("safe_printf")

	g.instr("pushq", "%rbp")
	g.instr2("movq", "%rsp", "%rbp")
	g.instr2("andq", "$-16", "%rsp")
	g.emit("call\tprintf")
	g.instr2("movq", "%rbp", "%rsp")
	g.instr("popq", "%rbp")
	g.ret()
	g.blank()
}

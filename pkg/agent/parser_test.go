package agent_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/tasktape/pkg/agent"
)

var _ = Describe("Parser", func() {
	var parser *agent.Parser

	BeforeEach(func() {
		parser = agent.NewParser(zap.NewNop())
	})

	It("returns plain text as prose with no tools", func() {
		result := parser.Parse("Sure, I can help with that!")
		Expect(result.Tools).To(BeEmpty())
		Expect(result.Prose).To(Equal("Sure, I can help with that!"))
	})

	It("extracts a single tool call", func() {
		raw := `I'll add that for you.
<TOOL_CALLS>
{"tools": [{"name": "add_task", "params": {"title": "buy milk"}}]}
</TOOL_CALLS>`

		result := parser.Parse(raw)
		Expect(result.Prose).To(Equal("I'll add that for you."))
		Expect(result.Tools).To(HaveLen(1))
		Expect(result.Tools[0].Name).To(Equal("add_task"))
		Expect(result.Tools[0].Params).To(HaveKeyWithValue("title", "buy milk"))
	})

	It("extracts multiple tool calls in order", func() {
		raw := `Doing both.
<TOOL_CALLS>
{"tools": [
  {"name": "add_task", "params": {"title": "one"}},
  {"name": "list_tasks", "params": {"status": "all"}}
]}
</TOOL_CALLS>`

		result := parser.Parse(raw)
		Expect(result.Tools).To(HaveLen(2))
		Expect(result.Tools[0].Name).To(Equal("add_task"))
		Expect(result.Tools[1].Name).To(Equal("list_tasks"))
	})

	It("matches markers case-insensitively", func() {
		raw := `Done.
<tool_calls>
{"tools": [{"name": "list_tasks", "params": {}}]}
</tool_calls>`

		result := parser.Parse(raw)
		Expect(result.Tools).To(HaveLen(1))
		Expect(result.Prose).To(Equal("Done."))
	})

	It("tolerates mixed-case markers", func() {
		raw := `Okay.
<Tool_Calls>
{"tools": [{"name": "list_tasks", "params": {}}]}
</Tool_Calls>`

		result := parser.Parse(raw)
		Expect(result.Tools).To(HaveLen(1))
	})

	It("degrades to zero tools on malformed JSON", func() {
		raw := `Hmm.
<TOOL_CALLS>
{"tools": [{"name": "add_task", "params":
</TOOL_CALLS>`

		result := parser.Parse(raw)
		Expect(result.Tools).To(BeEmpty())
		Expect(result.Prose).To(Equal("Hmm."))
	})

	It("degrades to zero tools when the closing marker is missing", func() {
		raw := `Hmm.
<TOOL_CALLS>
{"tools": [{"name": "add_task", "params": {"title": "x"}}]}`

		result := parser.Parse(raw)
		Expect(result.Tools).To(BeEmpty())
		Expect(result.Prose).To(Equal("Hmm."))
	})

	It("handles an empty block", func() {
		result := parser.Parse("Nothing to do.\n<TOOL_CALLS></TOOL_CALLS>")
		Expect(result.Tools).To(BeEmpty())
		Expect(result.Prose).To(Equal("Nothing to do."))
	})

	It("handles an empty tools array", func() {
		result := parser.Parse(`All set.
<TOOL_CALLS>
{"tools": []}
</TOOL_CALLS>`)
		Expect(result.Tools).To(BeEmpty())
		Expect(result.Prose).To(Equal("All set."))
	})

	It("handles empty input", func() {
		result := parser.Parse("")
		Expect(result.Tools).To(BeEmpty())
		Expect(result.Prose).To(BeEmpty())
	})

	It("drops text after the tool block from prose", func() {
		raw := `Before.
<TOOL_CALLS>
{"tools": [{"name": "list_tasks", "params": {}}]}
</TOOL_CALLS>
After.`

		result := parser.Parse(raw)
		Expect(result.Prose).To(Equal("Before."))
		Expect(result.Tools).To(HaveLen(1))
	})
})

package agent_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/tasktape/pkg/agent"
)

var _ = Describe("IDMapper", func() {
	var mapper *agent.IDMapper

	BeforeEach(func() {
		mapper = agent.NewIDMapper()
	})

	It("allocates IDs above the synthetic base", func() {
		id := mapper.MapProviderID("abc-123", "todoist")
		Expect(id).To(Equal(1001))
	})

	It("allocates sequential IDs for distinct provider IDs", func() {
		first := mapper.MapProviderID("abc", "todoist")
		second := mapper.MapProviderID("def", "todoist")
		Expect(first).To(Equal(1001))
		Expect(second).To(Equal(1002))
	})

	It("returns the same ID for a repeated provider ID", func() {
		first := mapper.MapProviderID("abc", "todoist")
		again := mapper.MapProviderID("abc", "todoist")
		Expect(again).To(Equal(first))
		Expect(mapper.Len()).To(Equal(1))
	})

	It("records an audit entry per allocation", func() {
		id := mapper.MapProviderID("abc-123", "todoist")

		original, ok := mapper.OriginalID(id)
		Expect(ok).To(BeTrue())
		Expect(original).To(Equal("todoist_abc-123"))
	})

	It("reports no audit entry for an unknown synthetic ID", func() {
		_, ok := mapper.OriginalID(42)
		Expect(ok).To(BeFalse())
	})

	It("starts over after Reset", func() {
		mapper.MapProviderID("abc", "todoist")
		mapper.MapProviderID("def", "todoist")
		mapper.Reset()

		Expect(mapper.Len()).To(Equal(0))
		Expect(mapper.MapProviderID("ghi", "todoist")).To(Equal(1001))
	})

	It("keeps two mappers independent", func() {
		other := agent.NewIDMapper()

		Expect(mapper.MapProviderID("abc", "todoist")).To(Equal(1001))
		Expect(other.MapProviderID("xyz", "linear")).To(Equal(1001))
	})
})

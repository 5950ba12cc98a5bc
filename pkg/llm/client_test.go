package llm_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/tasktape/pkg/llm"
)

var _ = Describe("openAI-compatible client", func() {
	var (
		upstream *httptest.Server
		captured map[string]any
		reply    string
		status   int
	)

	BeforeEach(func() {
		captured = nil
		reply = "Hello there!"
		status = http.StatusOK

		upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Path).To(Equal("/v1/chat/completions"))
			Expect(r.Header.Get("Authorization")).To(Equal("Bearer test-key"))

			payload, err := io.ReadAll(r.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(json.Unmarshal(payload, &captured)).To(Succeed())

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]any{
				"model":   "test-model",
				"created": 1700000000,
				"choices": []map[string]any{
					{
						"message":       map[string]any{"role": "assistant", "content": reply},
						"finish_reason": "stop",
					},
				},
				"usage": map[string]any{
					"prompt_tokens":     12,
					"completion_tokens": 5,
					"total_tokens":      17,
				},
			})
		}))
	})

	AfterEach(func() {
		upstream.Close()
	})

	newClient := func() llm.Client {
		client, err := llm.NewClient(llm.ClientConfig{
			Provider: "groq",
			Model:    "test-model",
			APIKey:   "test-key",
			BaseURL:  upstream.URL,
		})
		Expect(err).NotTo(HaveOccurred())
		return client
	}

	It("returns the assistant message", func() {
		resp, err := newClient().Complete(context.Background(), &llm.ChatRequest{
			Messages: []llm.Message{llm.NewTextMessage(llm.RoleUser, "hi")},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Message.Role).To(Equal(llm.RoleAssistant))
		Expect(resp.Message.Content).To(Equal("Hello there!"))
		Expect(resp.StopReason).To(Equal("stop"))
		Expect(resp.Usage).NotTo(BeNil())
		Expect(resp.Usage.TotalTokens).To(Equal(17))
	})

	It("sends the system prompt as the first message", func() {
		temp := 0.3
		_, err := newClient().Complete(context.Background(), &llm.ChatRequest{
			System:      "you are a test",
			Temperature: &temp,
			Messages:    []llm.Message{llm.NewTextMessage(llm.RoleUser, "hi")},
		})
		Expect(err).NotTo(HaveOccurred())

		messages := captured["messages"].([]any)
		Expect(messages).To(HaveLen(2))
		first := messages[0].(map[string]any)
		Expect(first["role"]).To(Equal("system"))
		Expect(first["content"]).To(Equal("you are a test"))
		Expect(captured["temperature"]).To(Equal(0.3))
	})

	It("omits unset sampling parameters", func() {
		_, err := newClient().Complete(context.Background(), &llm.ChatRequest{
			Messages: []llm.Message{llm.NewTextMessage(llm.RoleUser, "hi")},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(captured).NotTo(HaveKey("temperature"))
		Expect(captured).NotTo(HaveKey("max_tokens"))
		Expect(captured).NotTo(HaveKey("top_p"))
	})

	It("surfaces non-200 responses as errors", func() {
		status = http.StatusTooManyRequests

		_, err := newClient().Complete(context.Background(), &llm.ChatRequest{
			Messages: []llm.Message{llm.NewTextMessage(llm.RoleUser, "hi")},
		})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("429"))
	})

	It("honors context cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newClient().Complete(ctx, &llm.ChatRequest{
			Messages: []llm.Message{llm.NewTextMessage(llm.RoleUser, "hi")},
		})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("NewClient", func() {
	It("rejects an unknown provider with an explicit key", func() {
		_, err := llm.NewClient(llm.ClientConfig{Provider: "mystery", APIKey: "k"})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unsupported provider"))
	})

	It("builds an ollama client without an API key", func() {
		client, err := llm.NewClient(llm.ClientConfig{Provider: "ollama"})
		Expect(err).NotTo(HaveOccurred())
		Expect(client).NotTo(BeNil())
	})
})

package store_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/tasktape/pkg/store"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

var _ = Describe("Store", func() {
	var (
		st  *store.Store
		ctx context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		st, err = store.NewSQLiteStore(":memory:")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if st != nil {
			st.Close()
		}
	})

	Describe("NewSQLiteStore", func() {
		It("creates a store with in-memory database", func() {
			Expect(st).NotTo(BeNil())
		})

		It("creates a store with file database", func() {
			tmpDir := GinkgoT().TempDir()
			dbPath := filepath.Join(tmpDir, "test.db")

			s, err := store.NewSQLiteStore(dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			_, err = os.Stat(dbPath)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("CreateTask and GetTask", func() {
		It("stores and retrieves a task", func() {
			created, err := st.CreateTask(ctx, "user-1", "buy milk", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(BeNumerically(">", 0))
			Expect(created.Completed).To(BeFalse())

			got, err := st.GetTask(ctx, "user-1", created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Title).To(Equal("buy milk"))
			Expect(got.Description).To(BeNil())
		})

		It("stores an optional description", func() {
			created, err := st.CreateTask(ctx, "user-1", "buy milk", strPtr("2% if they have it"))
			Expect(err).NotTo(HaveOccurred())

			got, err := st.GetTask(ctx, "user-1", created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Description).NotTo(BeNil())
			Expect(*got.Description).To(Equal("2% if they have it"))
		})

		It("returns ErrNotFound for a missing task", func() {
			_, err := st.GetTask(ctx, "user-1", 9999)
			Expect(err).To(HaveOccurred())
			Expect(store.IsNotFound(err)).To(BeTrue())
		})

		It("returns ErrNotFound for another user's task", func() {
			created, err := st.CreateTask(ctx, "user-1", "private", nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = st.GetTask(ctx, "user-2", created.ID)
			Expect(err).To(HaveOccurred())
			Expect(store.IsNotFound(err)).To(BeTrue())
		})
	})

	Describe("GetTaskByTitle", func() {
		BeforeEach(func() {
			_, err := st.CreateTask(ctx, "user-1", "Buy Milk", nil)
			Expect(err).NotTo(HaveOccurred())
		})

		It("resolves an exact title match", func() {
			task, err := st.GetTaskByTitle(ctx, "user-1", "Buy Milk")
			Expect(err).NotTo(HaveOccurred())
			Expect(task.Title).To(Equal("Buy Milk"))
		})

		It("falls back to a case-insensitive match", func() {
			task, err := st.GetTaskByTitle(ctx, "user-1", "buy milk")
			Expect(err).NotTo(HaveOccurred())
			Expect(task.Title).To(Equal("Buy Milk"))
		})

		It("prefers the exact match when both exist", func() {
			exact, err := st.CreateTask(ctx, "user-1", "buy milk", nil)
			Expect(err).NotTo(HaveOccurred())

			task, err := st.GetTaskByTitle(ctx, "user-1", "buy milk")
			Expect(err).NotTo(HaveOccurred())
			Expect(task.ID).To(Equal(exact.ID))
		})

		It("does not fuzzy match", func() {
			_, err := st.GetTaskByTitle(ctx, "user-1", "milk")
			Expect(err).To(HaveOccurred())
			Expect(store.IsNotFound(err)).To(BeTrue())
		})

		It("is scoped to the user", func() {
			_, err := st.GetTaskByTitle(ctx, "user-2", "Buy Milk")
			Expect(err).To(HaveOccurred())
			Expect(store.IsNotFound(err)).To(BeTrue())
		})
	})

	Describe("ListTasks", func() {
		BeforeEach(func() {
			first, err := st.CreateTask(ctx, "user-1", "first", nil)
			Expect(err).NotTo(HaveOccurred())
			_, err = st.CreateTask(ctx, "user-1", "second", nil)
			Expect(err).NotTo(HaveOccurred())
			_, err = st.CreateTask(ctx, "user-2", "other user", nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = st.UpdateTask(ctx, "user-1", first.ID, store.TaskUpdate{Completed: boolPtr(true)})
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns all of the user's tasks oldest first", func() {
			tasks, err := st.ListTasks(ctx, "user-1", store.StatusAll)
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks).To(HaveLen(2))
			Expect(tasks[0].Title).To(Equal("first"))
			Expect(tasks[1].Title).To(Equal("second"))
		})

		It("filters pending tasks", func() {
			tasks, err := st.ListTasks(ctx, "user-1", store.StatusPending)
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks).To(HaveLen(1))
			Expect(tasks[0].Title).To(Equal("second"))
		})

		It("filters completed tasks", func() {
			tasks, err := st.ListTasks(ctx, "user-1", store.StatusCompleted)
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks).To(HaveLen(1))
			Expect(tasks[0].Title).To(Equal("first"))
		})

		It("rejects an unknown status filter", func() {
			_, err := st.ListTasks(ctx, "user-1", "bogus")
			Expect(err).To(HaveOccurred())
		})

		It("never returns another user's tasks", func() {
			tasks, err := st.ListTasks(ctx, "user-2", store.StatusAll)
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks).To(HaveLen(1))
			Expect(tasks[0].Title).To(Equal("other user"))
		})
	})

	Describe("UpdateTask", func() {
		var taskID int64

		BeforeEach(func() {
			task, err := st.CreateTask(ctx, "user-1", "original", strPtr("desc"))
			Expect(err).NotTo(HaveOccurred())
			taskID = task.ID
		})

		It("updates only the provided fields", func() {
			updated, err := st.UpdateTask(ctx, "user-1", taskID, store.TaskUpdate{Title: strPtr("renamed")})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Title).To(Equal("renamed"))
			Expect(updated.Description).NotTo(BeNil())
			Expect(*updated.Description).To(Equal("desc"))
			Expect(updated.Completed).To(BeFalse())
		})

		It("marks a task completed", func() {
			updated, err := st.UpdateTask(ctx, "user-1", taskID, store.TaskUpdate{Completed: boolPtr(true)})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Completed).To(BeTrue())
		})

		It("returns ErrNotFound for another user's task", func() {
			_, err := st.UpdateTask(ctx, "user-2", taskID, store.TaskUpdate{Title: strPtr("stolen")})
			Expect(err).To(HaveOccurred())
			Expect(store.IsNotFound(err)).To(BeTrue())

			// State must be unchanged.
			task, err := st.GetTask(ctx, "user-1", taskID)
			Expect(err).NotTo(HaveOccurred())
			Expect(task.Title).To(Equal("original"))
		})
	})

	Describe("DeleteTask", func() {
		var taskID int64

		BeforeEach(func() {
			task, err := st.CreateTask(ctx, "user-1", "doomed", nil)
			Expect(err).NotTo(HaveOccurred())
			taskID = task.ID
		})

		It("deletes the task", func() {
			Expect(st.DeleteTask(ctx, "user-1", taskID)).To(Succeed())

			_, err := st.GetTask(ctx, "user-1", taskID)
			Expect(store.IsNotFound(err)).To(BeTrue())
		})

		It("returns ErrNotFound for a missing task", func() {
			err := st.DeleteTask(ctx, "user-1", 9999)
			Expect(store.IsNotFound(err)).To(BeTrue())
		})

		It("returns ErrNotFound for another user's task and leaves it intact", func() {
			err := st.DeleteTask(ctx, "user-2", taskID)
			Expect(store.IsNotFound(err)).To(BeTrue())

			_, err = st.GetTask(ctx, "user-1", taskID)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Conversations and messages", func() {
		It("creates and retrieves a conversation", func() {
			conv, err := st.CreateConversation(ctx, "user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(conv.ID).To(BeNumerically(">", 0))

			got, err := st.GetConversation(ctx, "user-1", conv.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.UserID).To(Equal("user-1"))
		})

		It("hides another user's conversation", func() {
			conv, err := st.CreateConversation(ctx, "user-1")
			Expect(err).NotTo(HaveOccurred())

			_, err = st.GetConversation(ctx, "user-2", conv.ID)
			Expect(store.IsNotFound(err)).To(BeTrue())
		})

		It("lists conversations per user", func() {
			_, err := st.CreateConversation(ctx, "user-1")
			Expect(err).NotTo(HaveOccurred())
			_, err = st.CreateConversation(ctx, "user-1")
			Expect(err).NotTo(HaveOccurred())
			_, err = st.CreateConversation(ctx, "user-2")
			Expect(err).NotTo(HaveOccurred())

			convs, err := st.ListConversations(ctx, "user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(convs).To(HaveLen(2))
		})

		It("appends and lists messages in chronological order", func() {
			conv, err := st.CreateConversation(ctx, "user-1")
			Expect(err).NotTo(HaveOccurred())

			_, err = st.CreateMessage(ctx, "user-1", conv.ID, "user", "hello")
			Expect(err).NotTo(HaveOccurred())
			_, err = st.CreateMessage(ctx, "user-1", conv.ID, "assistant", "hi there")
			Expect(err).NotTo(HaveOccurred())

			messages, err := st.ListMessages(ctx, "user-1", conv.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(messages).To(HaveLen(2))
			Expect(messages[0].Role).To(Equal("user"))
			Expect(messages[0].Content).To(Equal("hello"))
			Expect(messages[1].Role).To(Equal("assistant"))
		})

		It("never leaks messages across users", func() {
			conv, err := st.CreateConversation(ctx, "user-1")
			Expect(err).NotTo(HaveOccurred())
			_, err = st.CreateMessage(ctx, "user-1", conv.ID, "user", "secret")
			Expect(err).NotTo(HaveOccurred())

			messages, err := st.ListMessages(ctx, "user-2", conv.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(messages).To(BeEmpty())
		})
	})
})

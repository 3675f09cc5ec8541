package git

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("clearGitEnvVars", func() {
	AfterEach(func() {
		_ = os.Unsetenv("GIT_INDEX_FILE")
	})

	It("clears GIT_INDEX_FILE", func() {
		Expect(os.Setenv("GIT_INDEX_FILE", "test-value")).To(Succeed())

		clearGitEnvVars()

		_, exists := os.LookupEnv("GIT_INDEX_FILE")
		Expect(exists).To(BeFalse())
	})
})

package extract

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NewGemini", func() {
	When("no API key is available", func() {
		It("fails with ErrCredentialMissing before building a client", func() {
			extractor, err := NewGemini("", "")
			Expect(extractor).To(BeNil())
			Expect(errors.Is(err, ErrCredentialMissing)).To(BeTrue())
		})
	})

	When("an API key is given", func() {
		It("applies the default call timeout", func() {
			extractor, err := NewGemini("test-key", "")
			Expect(err).NotTo(HaveOccurred())
			defer extractor.Close()

			Expect(extractor.timeout).To(Equal(defaultTimeout))
			Expect(extractor.rasterizePDF).To(BeFalse())
		})

		It("honors options", func() {
			extractor, err := NewGemini("test-key", "gemini-2.5-pro",
				WithTimeout(5*time.Second),
				WithPDFRasterization(),
			)
			Expect(err).NotTo(HaveOccurred())
			defer extractor.Close()

			Expect(extractor.timeout).To(Equal(5 * time.Second))
			Expect(extractor.rasterizePDF).To(BeTrue())
		})

		It("ignores non-positive timeouts", func() {
			extractor, err := NewGemini("test-key", "", WithTimeout(0))
			Expect(err).NotTo(HaveOccurred())
			defer extractor.Close()

			Expect(extractor.timeout).To(Equal(defaultTimeout))
		})
	})
})

var _ = Describe("UpstreamError", func() {
	It("unwraps its cause", func() {
		cause := errors.New("boom")
		err := &UpstreamError{Reason: "generating content", Err: cause}
		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("generating content"))
	})

	It("formats without a cause", func() {
		err := &UpstreamError{Reason: "empty response"}
		Expect(err.Error()).To(Equal("upstream: empty response"))
	})
})

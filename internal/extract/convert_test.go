package extract

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// heicHeader builds a minimal ftyp box with the given brand.
func heicHeader(brand string) []byte {
	data := make([]byte, 16)
	copy(data[4:8], "ftyp")
	copy(data[8:12], brand)
	return data
}

var _ = Describe("isHEIC", func() {
	It("detects the HEIC/HEIF brands", func() {
		for _, brand := range []string{"heic", "heif", "mif1", "msf1"} {
			Expect(isHEIC(heicHeader(brand))).To(BeTrue(), brand)
		}
	})

	It("rejects other brands", func() {
		Expect(isHEIC(heicHeader("isom"))).To(BeFalse())
	})

	It("rejects data without an ftyp box", func() {
		jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01}
		Expect(isHEIC(jpeg)).To(BeFalse())
	})

	It("rejects short data", func() {
		Expect(isHEIC([]byte("ftyp"))).To(BeFalse())
	})
})

var _ = Describe("normalizeDocument", func() {
	It("passes JPEG bytes through untouched", func() {
		jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0}

		data, mimeType, err := normalizeDocument(jpeg, "image/jpeg", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal(jpeg))
		Expect(mimeType).To(Equal("image/jpeg"))
	})

	It("uploads PDF bytes natively by default", func() {
		pdf := []byte("%PDF-1.4 ...")

		data, mimeType, err := normalizeDocument(pdf, "application/pdf", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal(pdf))
		Expect(mimeType).To(Equal("application/pdf"))
	})

	It("fails on HEIC data that cannot be decoded", func() {
		_, _, err := normalizeDocument(heicHeader("heic"), "image/jpeg", false)
		Expect(err).To(HaveOccurred())
	})
})

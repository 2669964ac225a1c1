package boris_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestBoris(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Boris Suite")
}

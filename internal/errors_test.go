package internal_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/frahmantamala/internship-api/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("renders the status/error envelope", func() {
		err := internal.NewNotFoundError("User with id 7 not found", internal.ErrCodeRecordNotFound)

		body, mErr := json.Marshal(err)
		Expect(mErr).NotTo(HaveOccurred())
		Expect(body).To(MatchJSON(`{"status":404,"error":"User with id 7 not found","code":"RECORD_NOT_FOUND"}`))
	})

	It("appends the cause of a constraint violation", func() {
		err := internal.NewConstraintError("Error creating user", internal.ErrCodeDuplicateKey, errors.New("duplicated key not allowed"))

		var env map[string]interface{}
		Expect(json.Unmarshal(mustMarshal(err), &env)).To(Succeed())
		Expect(env["status"]).To(BeEquivalentTo(http.StatusBadRequest))
		Expect(env["error"]).To(Equal("Error creating user duplicated key not allowed"))
	})

	It("hides the cause of an internal error", func() {
		err := internal.NewInternalError("There was a problem processing the request", errors.New("dial tcp: refused"))

		Expect(string(mustMarshal(err))).NotTo(ContainSubstring("dial tcp"))
	})

	It("joins field messages", func() {
		err := internal.NewValidationFieldError("firstName", "firstName is required", internal.ErrCodeValidationFailed)
		Expect(err.GetDetailedMessage()).To(Equal("firstName is required"))
	})

	It("is found through wrapping", func() {
		wrapped := fmt.Errorf("handler: %w", internal.ErrInvalidToken)
		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusUnauthorized))
	})
})

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	Expect(err).NotTo(HaveOccurred())
	return b
}

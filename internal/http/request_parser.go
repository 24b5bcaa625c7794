package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"debtplan/internal/core"
)

const maxBodyBytes = 1 << 20

// errBadRequest marks bodies that are not well-formed JSON of the expected
// shape.
var errBadRequest = errors.New("malformed request body")

// decodeJSON reads a single JSON object into dst. Unknown fields are
// rejected so that typos do not silently zero a value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("%w: content type must be application/json", errBadRequest)
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON object", errBadRequest)
	}
	return nil
}

// Amount is money on the wire. It decodes from "12.34", "12,34" or 12.34
// and always encodes as a string with two decimals.
type Amount int64

func (a Amount) Money() core.Money {
	return core.Money{Cents: int64(a)}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(core.FormatCents(int64(a)))
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	m, err := core.ParseMoney(s)
	if err != nil {
		return fmt.Errorf("%w: %q", core.ErrInvalidAmount, s)
	}
	*a = Amount(m.Cents)
	return nil
}

func amountOf(m core.Money) Amount {
	return Amount(m.Cents)
}

// roundedAmount converts a simulated float amount of cents for display.
func roundedAmount(cents float64) Amount {
	return Amount(core.RoundCents(cents))
}

// bearerToken extracts the token from "Authorization: Bearer <token>". The
// "Token" scheme is accepted as well.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok {
		return "", false
	}
	if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

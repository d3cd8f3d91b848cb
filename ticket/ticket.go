package ticket

import (
	"errors"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/Ashenafi-pixel/spin-to-win/playgate"
	"github.com/Ashenafi-pixel/spin-to-win/prize"
)

// DefaultTTL is how long a ticket stays redeemable after it is awarded.
const DefaultTTL = 48 * time.Hour

// DefaultQRSize is the QR edge length in pixels.
const DefaultQRSize = 100

var ErrEmptyCode = errors.New("ticket code is empty")

// Ticket is an awarded prize with its redemption code and validity window.
type Ticket struct {
	Code      string      `json:"code"`
	Prize     prize.Prize `json:"prize"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Date      string      `json:"date"`
	AwardedAt time.Time   `json:"awardedAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// New builds the ticket for p awarded to name/email at awardedAt.
// A non-positive ttl means DefaultTTL.
func New(p prize.Prize, name, email string, awardedAt time.Time, ttl time.Duration) *Ticket {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	date := playgate.DateUTC(awardedAt)
	return &Ticket{
		Code:      GenerateCode(p.CodePrefix, name, email, date),
		Prize:     p,
		Name:      name,
		Email:     email,
		Date:      date,
		AwardedAt: awardedAt,
		ExpiresAt: awardedAt.Add(ttl),
	}
}

// Filename is the suggested download name for the exported ticket image.
func (t *Ticket) Filename() string {
	return Filename(t.Code)
}

func Filename(code string) string {
	return "WorkCo_Ticket_" + code + ".png"
}

// QRCode renders code as a PNG of size x size pixels.
func QRCode(code string, size int) ([]byte, error) {
	if code == "" {
		return nil, ErrEmptyCode
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	return qrcode.Encode(code, qrcode.Medium, size)
}

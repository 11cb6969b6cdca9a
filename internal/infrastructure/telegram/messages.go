package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"

	listingUsecases "github.com/autopro-kz/autopro/internal/application/listing/usecases"
	paymentUsecases "github.com/autopro-kz/autopro/internal/application/payment/usecases"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
)

const displayTimeLayout = "02.01.2006 15:04"

// EscapeHTML escapes text for parse_mode=HTML.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

func formatTime(t time.Time) string {
	return biztime.ToBizTimezone(t).Format(displayTimeLayout)
}

func FormatNewListing(n listingUsecases.NewListingNotice) string {
	var b strings.Builder
	b.WriteString("🚗 <b>Новое объявление на модерации</b>\n\n")
	fmt.Fprintf(&b, "<b>Авто:</b> %s\n", EscapeHTML(n.Name))
	fmt.Fprintf(&b, "<b>ID объявления:</b> %d\n", n.CarID)
	fmt.Fprintf(&b, "<b>Владелец:</b> #%d\n", n.OwnerID)
	if n.ReleaseYear != nil {
		fmt.Fprintf(&b, "<b>Год выпуска:</b> %d\n", *n.ReleaseYear)
	}
	if n.PricePerDay != nil {
		fmt.Fprintf(&b, "<b>Цена в сутки:</b> %d ₸\n", *n.PricePerDay)
	}
	fmt.Fprintf(&b, "<b>Создано:</b> %s", formatTime(n.CreatedAt))
	return b.String()
}

func FormatPaymentSuccess(cmd paymentUsecases.AdminPaymentCommand) string {
	var b strings.Builder
	b.WriteString("💳 <b>Оплата подписки</b>\n\n")
	fmt.Fprintf(&b, "<b>Тариф:</b> %s (%s)\n", EscapeHTML(cmd.PlanName), EscapeHTML(cmd.PlanCode))
	fmt.Fprintf(&b, "<b>Сумма:</b> %d ₸\n", cmd.AmountKZT)
	fmt.Fprintf(&b, "<b>Владелец:</b> #%d\n", cmd.OwnerID)
	fmt.Fprintf(&b, "<b>Подписка:</b> #%d\n", cmd.SubscriptionID)
	fmt.Fprintf(&b, "<b>Платёж:</b> %s / <code>%s</code>\n", EscapeHTML(cmd.Provider), EscapeHTML(cmd.ExternalID))
	fmt.Fprintf(&b, "<b>Действует до:</b> %s\n", formatTime(cmd.ValidUntil))
	fmt.Fprintf(&b, "<b>Оплачено:</b> %s", formatTime(cmd.PaidAt))
	return b.String()
}

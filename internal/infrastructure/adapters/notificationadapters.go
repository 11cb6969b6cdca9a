package adapters

import (
	"context"
	"errors"

	listingUsecases "github.com/autopro-kz/autopro/internal/application/listing/usecases"
	paymentUsecases "github.com/autopro-kz/autopro/internal/application/payment/usecases"
)

// PaymentNotifiers sends a payment receipt through every configured channel.
// A failing channel does not stop the others.
type PaymentNotifiers []paymentUsecases.AdminPaymentNotifier

var _ paymentUsecases.AdminPaymentNotifier = PaymentNotifiers(nil)

func (n PaymentNotifiers) NotifyPaymentSuccess(ctx context.Context, cmd paymentUsecases.AdminPaymentCommand) error {
	var errs []error
	for _, notifier := range n {
		if err := notifier.NotifyPaymentSuccess(ctx, cmd); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ListingNotifiers fans a new-listing notice out to every moderator channel.
type ListingNotifiers []listingUsecases.NewListingNotifier

var _ listingUsecases.NewListingNotifier = ListingNotifiers(nil)

func (n ListingNotifiers) NotifyNewListing(ctx context.Context, notice listingUsecases.NewListingNotice) error {
	var errs []error
	for _, notifier := range n {
		if err := notifier.NotifyNewListing(ctx, notice); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

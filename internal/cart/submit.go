package cart

import (
	"context"
	"fmt"

	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/backend"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/enums"
	pkgerrors "github.com/DanyGuerra/business-manager-frontend-sub001/pkg/errors"
)

type orderSubmitter interface {
	SubmitOrder(ctx context.Context, submission backend.Submission) error
}

type businessSource interface {
	BusinessID() string
}

// SubmitService turns the composed cart into an order-creation call. Local
// item and group ids never leave the client; the backend mints its own ids
// and the created order comes back over the realtime channel.
type SubmitService struct {
	composer *Composer
	client   orderSubmitter
	business businessSource
}

// NewSubmitService builds the submit path over the composer.
func NewSubmitService(composer *Composer, client orderSubmitter, business businessSource) (*SubmitService, error) {
	if composer == nil {
		return nil, fmt.Errorf("cart composer required")
	}
	if client == nil {
		return nil, fmt.Errorf("order submitter required")
	}
	if business == nil {
		return nil, fmt.Errorf("business source required")
	}
	return &SubmitService{
		composer: composer,
		client:   client,
		business: business,
	}, nil
}

// Submit posts the current cart and clears it on success. A failed submit
// leaves the cart intact for retry.
func (s *SubmitService) Submit(ctx context.Context, consumptionType enums.ConsumptionType, customerName string) error {
	if !consumptionType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "consumption type is required")
	}
	businessID := s.business.BusinessID()
	if businessID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "no active business selected")
	}

	groups := s.composer.Groups()
	submission := backend.Submission{
		BusinessID:      businessID,
		ConsumptionType: consumptionType.String(),
		CustomerName:    customerName,
	}
	itemCount := 0
	for _, group := range groups {
		mapped := backend.SubmissionGroup{Name: group.Name}
		for _, item := range group.Items {
			optionIDs := make([]string, 0, len(item.Options))
			for _, option := range item.Options {
				optionIDs = append(optionIDs, option.ID)
			}
			mapped.Items = append(mapped.Items, backend.SubmissionItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				OptionIDs: optionIDs,
			})
			itemCount++
		}
		submission.Groups = append(submission.Groups, mapped)
	}
	if itemCount == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	if err := s.client.SubmitOrder(ctx, submission); err != nil {
		return err
	}
	s.composer.Clear()
	return nil
}

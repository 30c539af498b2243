package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/polkiloo/orderengine/internal/config"
	domainErrors "github.com/polkiloo/orderengine/internal/domain/errors"
	"github.com/polkiloo/orderengine/internal/domain/model"
	"github.com/polkiloo/orderengine/internal/domain/repository"
)

// GuestInfo carries contact details supplied without a customer account.
type GuestInfo struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

func (g *GuestInfo) empty() bool {
	return g == nil || (strings.TrimSpace(g.FirstName) == "" && strings.TrimSpace(g.LastName) == "" &&
		strings.TrimSpace(g.Email) == "" && strings.TrimSpace(g.Phone) == "")
}

// CustomerInput selects an existing customer or describes a guest.
// StaffActor marks an actor placing the order for someone else, such as a POS or phone order.
type CustomerInput struct {
	CustomerID       *int64
	Guest            *GuestInfo
	SaveCustomerInfo bool
	StaffActor       bool
}

// CustomerResolver maps an order request to a persisted customer id.
type CustomerResolver struct {
	phone *regexp.Regexp
}

// NewCustomerResolver compiles the configured phone pattern.
func NewCustomerResolver(cfg *config.Config) (*CustomerResolver, error) {
	phone, err := regexp.Compile(cfg.PhonePattern)
	if err != nil {
		return nil, fmt.Errorf("compile phone pattern: %w", err)
	}
	return &CustomerResolver{phone: phone}, nil
}

// Check rejects input that can never resolve, before any write happens.
func (r *CustomerResolver) Check(in CustomerInput) error {
	if in.CustomerID == nil && in.Guest.empty() {
		return domainErrors.ErrMissingCustomerInfo
	}
	return nil
}

// Resolve returns the id of the existing customer, optionally refreshing its contact details,
// or creates a guest customer linked to actor when one is authenticated.
// An existing customer is only reachable by its linked user or by staff.
func (r *CustomerResolver) Resolve(ctx context.Context, customers repository.CustomerRepository, in CustomerInput, actor *int64) (int64, error) {
	if err := r.Check(in); err != nil {
		return 0, err
	}

	if in.CustomerID != nil {
		if actor == nil {
			return 0, domainErrors.ErrActorRequired
		}
		customer, err := customers.GetByID(ctx, *in.CustomerID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return 0, domainErrors.ErrCustomerNotFound
			}
			return 0, err
		}
		if !in.StaffActor && (customer.UserID == nil || *customer.UserID != *actor) {
			return 0, domainErrors.ErrCustomerNotFound
		}
		if in.SaveCustomerInfo && !in.Guest.empty() {
			info, err := r.contact(*in.Guest)
			if err != nil {
				return 0, err
			}
			if _, err := customers.UpdateContact(ctx, customer.ID, mergeContact(*customer, info)); err != nil {
				return 0, err
			}
		}
		return customer.ID, nil
	}

	info, err := r.contact(*in.Guest)
	if err != nil {
		return 0, err
	}
	if info.FirstName == "" || info.LastName == "" || info.Phone == "" {
		return 0, domainErrors.ErrMissingCustomerInfo
	}
	customer := &model.Customer{
		UserID:    actor,
		FirstName: info.FirstName,
		LastName:  info.LastName,
		Email:     info.Email,
		Phone:     info.Phone,
		IsGuest:   true,
	}
	if err := customers.Create(ctx, customer); err != nil {
		return 0, err
	}
	return customer.ID, nil
}

func (r *CustomerResolver) contact(g GuestInfo) (model.ContactInfo, error) {
	info := model.ContactInfo{
		FirstName: strings.TrimSpace(g.FirstName),
		LastName:  strings.TrimSpace(g.LastName),
		Email:     strings.ToLower(strings.TrimSpace(g.Email)),
		Phone:     normalizePhone(g.Phone),
	}
	if info.Phone != "" && !r.phone.MatchString(info.Phone) {
		return info, domainErrors.ErrInvalidPhone
	}
	if info.Email != "" {
		if _, err := mail.ParseAddress(info.Email); err != nil {
			return info, domainErrors.ErrInvalidEmail
		}
	}
	return info, nil
}

// mergeContact keeps the stored value for every field the caller left blank.
func mergeContact(c model.Customer, info model.ContactInfo) model.ContactInfo {
	pick := func(supplied, stored string) string {
		if supplied != "" {
			return supplied
		}
		return stored
	}
	return model.ContactInfo{
		FirstName: pick(info.FirstName, c.FirstName),
		LastName:  pick(info.LastName, c.LastName),
		Email:     pick(info.Email, c.Email),
		Phone:     pick(info.Phone, c.Phone),
	}
}

func normalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
}

package services

import (
	"okeanmarket/internal/domain"
	"okeanmarket/internal/repos"
	"okeanmarket/internal/session"
	"okeanmarket/internal/validate"

	"github.com/google/uuid"
)

type ProfileService struct {
	Profiles  *repos.ProfileRepo
	Addresses *repos.AddressRepo
}

func NewProfileService(profiles *repos.ProfileRepo, addresses *repos.AddressRepo) *ProfileService {
	return &ProfileService{Profiles: profiles, Addresses: addresses}
}

// Get returns the shopper's profile, materializing an empty one for ids we
// have never seen (guest ids are minted client-side).
func (s *ProfileService) Get(sctx session.Context) (domain.Profile, error) {
	if sctx.UserID == nil {
		return domain.Profile{}, domain.Invalid("user_id", "required")
	}
	p, err := s.Profiles.Get(*sctx.UserID)
	if err == domain.ErrNotFound {
		return domain.Profile{TelegramID: *sctx.UserID}, nil
	}
	return p, err
}

func (s *ProfileService) Update(sctx session.Context, name, phone string) (domain.Profile, error) {
	if sctx.UserID == nil {
		return domain.Profile{}, domain.Invalid("user_id", "required")
	}
	name, ok := validate.Name(name)
	if !ok {
		return domain.Profile{}, domain.Invalid("name", "required, at most 60 characters")
	}
	if phone != "" {
		if phone, ok = validate.Phone(phone); !ok {
			return domain.Profile{}, domain.Invalid("phone", "expected +998XXXXXXXXX")
		}
	}
	if err := s.Profiles.Upsert(*sctx.UserID, name, phone); err != nil {
		return domain.Profile{}, err
	}
	return s.Profiles.Get(*sctx.UserID)
}

func (s *ProfileService) ListAddresses(sctx session.Context) ([]domain.Address, error) {
	if sctx.UserID == nil {
		return []domain.Address{}, nil
	}
	return s.Addresses.ListByUser(*sctx.UserID)
}

func (s *ProfileService) AddAddress(sctx session.Context, label, addressText string, lat, lng *float64) (domain.Address, error) {
	if sctx.UserID == nil {
		return domain.Address{}, domain.Invalid("user_id", "required")
	}
	addressText, ok := validate.Address(addressText)
	if !ok {
		return domain.Address{}, domain.Invalid("address", "required, at most 300 characters")
	}
	a := domain.Address{
		ID:          uuid.NewString(),
		UserID:      *sctx.UserID,
		Label:       label,
		AddressText: addressText,
		Lat:         lat,
		Lng:         lng,
	}
	if err := s.Addresses.Insert(a); err != nil {
		return domain.Address{}, err
	}
	return a, nil
}

func (s *ProfileService) DeleteAddress(sctx session.Context, addressID string) error {
	if sctx.UserID == nil {
		return domain.ErrNotFound
	}
	return s.Addresses.Delete(addressID, *sctx.UserID)
}

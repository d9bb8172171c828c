package usecase

import (
	"context"
	"net/http"

	"storefront/internal/checkout"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type AddressUsecase struct {
	addressRepo repo.AddressRepository
	cv          CheckoutValidator
}

func NewAddressUsecase(
	addressRepo repo.AddressRepository,
	cv CheckoutValidator,
) *AddressUsecase {
	return &AddressUsecase{
		addressRepo: addressRepo,
		cv:          cv,
	}
}

// 画面表示用の住所。氏名は結合した形で返す
type AddressResponse struct {
	ID         int64  `json:"id"`
	FullName   string `json:"full_name"`
	PostalCode string `json:"postal_code"`
	Prefecture string `json:"prefecture"`
	City       string `json:"city"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"is_default"`
}

func toAddressResponse(a model.Address) AddressResponse {
	f := checkout.FormatAddressForDisplay(checkout.AddressRecord{
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Phone:      a.Phone,
		PostalCode: a.PostalCode,
		Prefecture: a.Prefecture,
		City:       a.City,
		Line1:      a.Line1,
		Line2:      a.Line2,
	})

	return AddressResponse{
		ID:         a.ID,
		FullName:   f.FullName,
		PostalCode: f.PostalCode,
		Prefecture: f.Prefecture,
		City:       f.City,
		Line1:      f.Line1,
		Line2:      f.Line2,
		Phone:      f.Phone,
		IsDefault:  a.IsDefault,
	}
}

func (u *AddressUsecase) ListMine(ctx context.Context, userID int64) ([]AddressResponse, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	list, err := u.addressRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]AddressResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAddressResponse(a))
	}
	return out, nil
}

type SaveAddressInput struct {
	FullName   string
	PostalCode string
	Prefecture string
	City       string
	Line1      string
	Line2      string
	Phone      string
	IsDefault  bool
}

func (u *AddressUsecase) validate(in SaveAddressInput) error {
	res := u.cv.Address(checkout.AddressInput{
		FullName:   in.FullName,
		PostalCode: in.PostalCode,
		Prefecture: in.Prefecture,
		City:       in.City,
		Line1:      in.Line1,
		Line2:      in.Line2,
		Phone:      in.Phone,
	})
	if len(res.Errors) > 0 {
		return NewHTTPError(http.StatusBadRequest, res.Errors[0])
	}
	return nil
}

// 入力値を保存形式に正規化してからレコードを作る
func (u *AddressUsecase) buildRecord(userID int64, in SaveAddressInput) model.Address {
	r := checkout.SanitizeAddressForStorage(checkout.AddressForm{
		FullName:   in.FullName,
		Phone:      in.Phone,
		PostalCode: in.PostalCode,
		Prefecture: in.Prefecture,
		City:       in.City,
		Line1:      in.Line1,
		Line2:      in.Line2,
	})

	return model.Address{
		UserID:     userID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		PostalCode: r.PostalCode,
		Prefecture: r.Prefecture,
		City:       r.City,
		Line1:      r.Line1,
		Line2:      r.Line2,
		Phone:      r.Phone,
		IsDefault:  in.IsDefault,
	}
}

func (u *AddressUsecase) Create(ctx context.Context, userID int64, in SaveAddressInput) (AddressResponse, error) {
	if userID <= 0 {
		return AddressResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.validate(in); err != nil {
		return AddressResponse{}, err
	}

	created, err := u.addressRepo.Create(ctx, u.buildRecord(userID, in))
	if err != nil {
		return AddressResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.IsDefault {
		if err := u.addressRepo.SetDefault(ctx, userID, created.ID); err != nil {
			return AddressResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		created.IsDefault = true
	}

	return toAddressResponse(created), nil
}

func (u *AddressUsecase) Update(ctx context.Context, userID int64, addressID int64, in SaveAddressInput) (AddressResponse, error) {
	if userID <= 0 {
		return AddressResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if addressID <= 0 {
		return AddressResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := u.validate(in); err != nil {
		return AddressResponse{}, err
	}

	owned, err := u.addressRepo.IsOwnedByUser(ctx, addressID, userID)
	if err != nil {
		return AddressResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return AddressResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	a := u.buildRecord(userID, in)
	a.ID = addressID

	if err := u.addressRepo.Update(ctx, a); err != nil {
		return AddressResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.IsDefault {
		if err := u.addressRepo.SetDefault(ctx, userID, addressID); err != nil {
			return AddressResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	updated, err := u.addressRepo.FindByID(ctx, addressID)
	if err != nil {
		return AddressResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toAddressResponse(updated), nil
}

func (u *AddressUsecase) Delete(ctx context.Context, userID int64, addressID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.addressRepo.IsOwnedByUser(ctx, addressID, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.addressRepo.Delete(ctx, addressID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

func (u *AddressUsecase) SetDefault(ctx context.Context, userID int64, addressID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.addressRepo.IsOwnedByUser(ctx, addressID, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.addressRepo.SetDefault(ctx, userID, addressID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

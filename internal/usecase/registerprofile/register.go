package registerprofile

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/mzeitler/bank-portal/internal/domain/entity"
	"github.com/mzeitler/bank-portal/internal/domain/repository"
)

var ErrValidation = errors.New("invalid profile request")

const accountNumberDigits = 10

type Request struct {
	Email    string
	FullName string
}

type Response struct {
	Profile *entity.Profile
}

type UseCase struct {
	profiles repository.ProfileRepository
}

func NewUseCase(profiles repository.ProfileRepository) *UseCase {
	return &UseCase{profiles: profiles}
}

func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	if !strings.Contains(req.Email, "@") {
		return nil, fmt.Errorf("%w: email required", ErrValidation)
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, fmt.Errorf("%w: full name required", ErrValidation)
	}

	accountNumber, err := generateAccountNumber()
	if err != nil {
		return nil, fmt.Errorf("generate account number: %w", err)
	}

	profile := entity.NewProfile(req.Email, req.FullName, accountNumber)
	if err := uc.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	return &Response{Profile: profile}, nil
}

func generateAccountNumber() (string, error) {
	var b strings.Builder
	for i := 0; i < accountNumberDigits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

package listings

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"pricewatch/internal/domain"
	"pricewatch/internal/domain/entity"
	"pricewatch/pkg/contextx"
	"pricewatch/pkg/errcodes"
	"pricewatch/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// File reads listings from a JSON array on disk.
type File struct {
	path          string
	defaultUserID string
	validate      *validator.Validate
}

func NewFile(path, defaultUserID string) *File {
	return &File{
		path:          path,
		defaultUserID: defaultUserID,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Load reads, decodes and validates the file. Every failure is an
// *domain.AppError so the caller can treat it as a configuration error.
func (f *File) Load(ctx context.Context) ([]entity.Listing, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, domain.WrapError(
			fmt.Errorf("os.ReadFile: %w", err),
			errcodes.ListingsUnreadable,
			"listings file unreadable",
		)
	}

	var raw []entity.Listing

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, domain.WrapError(
			fmt.Errorf("json.Unmarshal: %w", err),
			errcodes.ListingsMalformed,
			"listings file malformed",
		)
	}

	result := make([]entity.Listing, 0, len(raw))

	for i, listing := range raw {
		if err := f.validate.StructCtx(ctx, listing); err != nil {
			return nil, domain.WrapError(
				fmt.Errorf("listing #%d (%s): %w", i, listing.Name, err),
				errcodes.ListingInvalid,
				"invalid listing",
			)
		}

		result = append(result, listing.WithDefaults(f.defaultUserID))
	}

	logger(ctx).Info("listings loaded",
		slog.String(logx.FieldPath, f.path),
		slog.Int(logx.FieldCount, len(result)),
	)

	for _, listing := range result {
		if len(listing.UserIDs) == 0 {
			logger(ctx).Warn("listing has no recipients", slog.String(logx.FieldListing, listing.Name))
		}
	}

	return result, nil
}

package tmdb

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/s0up4200/tmdb3/element"
)

var validate = validator.New()

// Configuration is the subset of the API configuration used to build image URLs
type Configuration struct {
	Images     ImageConfiguration `json:"images"`
	ChangeKeys []string           `json:"change_keys"`
}

type ImageConfiguration struct {
	BaseURL       string   `json:"base_url"`
	SecureBaseURL string   `json:"secure_base_url"`
	BackdropSizes []string `json:"backdrop_sizes"`
	LogoSizes     []string `json:"logo_sizes"`
	PosterSizes   []string `json:"poster_sizes"`
	ProfileSizes  []string `json:"profile_sizes"`
	StillSizes    []string `json:"still_sizes"`
}

// ImageKind selects the size list an image is validated against
type ImageKind string

const (
	KindImage    ImageKind = "image"
	KindPoster   ImageKind = "poster"
	KindBackdrop ImageKind = "backdrop"
	KindProfile  ImageKind = "profile"
	KindLogo     ImageKind = "logo"
	KindStill    ImageKind = "still"
)

// Sizes lists the sizes served for kind
func (c *ImageConfiguration) Sizes(kind ImageKind) []string {
	switch kind {
	case KindPoster:
		return c.PosterSizes
	case KindBackdrop:
		return c.BackdropSizes
	case KindProfile:
		return c.ProfileSizes
	case KindLogo:
		return c.LogoSizes
	case KindStill:
		return c.StillSizes
	}
	return []string{"original"}
}

// Image is a poster, backdrop, profile, logo or still
type Image struct {
	*element.Element
}

// AsImage wraps an element of one of the image types. Other elements yield nil.
func AsImage(e *element.Element) *Image {
	if e == nil || !e.Type().Is(ImageType) {
		return nil
	}
	return &Image{e}
}

// Kind reports which size list applies
func (i *Image) Kind() ImageKind {
	switch i.Type() {
	case PosterType:
		return KindPoster
	case BackdropType:
		return KindBackdrop
	case ProfileType:
		return KindProfile
	case LogoType:
		return KindLogo
	case StillType:
		return KindStill
	}
	return KindImage
}

// Filename is the image path without leading slashes
func (i *Image) Filename(ctx context.Context) (string, error) {
	return i.GetString(ctx, "filename")
}

// Language is the iso_639_1 code of the text in the image, if any
func (i *Image) Language(ctx context.Context) (string, error) {
	return i.GetString(ctx, "language")
}

// URL builds the address of the image at size. size must be one of the
// sizes the configuration lists for the image kind.
func (i *Image) URL(ctx context.Context, cfg *Configuration, size string) (string, error) {
	sizes := cfg.Images.Sizes(i.Kind())
	if err := validateSize(size, sizes); err != nil {
		return "", err
	}
	name, err := i.Filename(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(cfg.Images.BaseURL, "/") + "/" + size + "/" + name, nil
}

func validateSize(size string, sizes []string) error {
	rule := "oneof=" + strings.Join(sizes, " ")
	if len(sizes) == 0 {
		return &ValidationError{Field: "size", Value: size, Rule: "oneof=<none>"}
	}
	if err := validate.Var(size, rule); err != nil {
		return &ValidationError{Field: "size", Value: size, Rule: rule, Err: err}
	}
	return nil
}

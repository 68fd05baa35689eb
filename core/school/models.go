package school

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/neptgadgets/school-nexus-final-sub001/core"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func init() {
	_ = core.Validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRegex.MatchString(fl.Field().String())
	})
	core.RegisterCustomTranslation("slug", "only lowercase letters, digits and hyphens are allowed")
}

// School is a tenant. Every non-super-admin user, student and attendance
// record hangs off exactly one school.
type School struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type NewSchool struct {
	Name    string `json:"name" validate:"required"`
	Slug    string `json:"slug" validate:"required,slug"`
	Address string `json:"address"`
}

func (ns *NewSchool) Validate(svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Slug = core.CleanString(ns.Slug, true /* lower */)
	ns.Address = core.CleanString(ns.Address)

	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkUniqueness(ns.Slug)
}

type UpdateSchool struct {
	Name     string `json:"name"`
	Slug     string `json:"slug" validate:"omitempty,slug"`
	Address  string `json:"address"`
	IsActive *bool  `json:"is_active"`
}

func (us *UpdateSchool) Validate(orig School, svc *Service) error {
	us.Name = core.CleanString(us.Name)
	if us.Name == "" {
		us.Name = orig.Name
	}
	slug := core.CleanString(us.Slug, true /* lower */)
	if slug != "" {
		us.Slug = slug
	} else {
		us.Slug = orig.Slug
	}
	us.Address = core.CleanString(us.Address)
	if us.Address == "" {
		us.Address = orig.Address
	}

	if err := core.Validate.Struct(us); err != nil {
		return err
	}
	return svc.checkUniqueness(us.Slug, orig)
}

// Slugify derives a slug from a school name, for admin provisioning.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = regexp.MustCompile(`[^a-z0-9]+`).ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

type QueryFilter struct {
	Search   string `query:"search"`
	IsActive *bool  `query:"is_active"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// Package explore shapes a building into the payloads of the public pages:
// the landing view, the facade with its markers and one location's detail.
package explore

import (
	"regexp"
	"strings"
	"time"

	"facade_backend/internal/model"
	"facade_backend/pkg/utils/location"
	"facade_backend/pkg/utils/placement"
)

type Step string

const (
	StepLanding Step = "landing"
	StepVideo   Step = "video"
	StepFacade  Step = "facade"
)

type ViewMode string

const (
	ViewGallery   ViewMode = "gallery"
	ViewViews     ViewMode = "views"
	ViewFloorPlan ViewMode = "floorplan"
	ViewTour      ViewMode = "tour"
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	nonDigit   = regexp.MustCompile(`\D`)
)

// LocationSlug is the URL segment of a facade point: its lowercased name
// with whitespace runs turned into dashes. Punctuation is kept.
func LocationSlug(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(name), "-")
}

type ContactLink struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Contacts returns the building's contact channels in display order,
// skipping empty fields.
func Contacts(b *model.Building) []ContactLink {
	links := []ContactLink{}

	if v := value(b.Whatsapp); v != "" {
		if digits := nonDigit.ReplaceAllString(v, ""); digits != "" {
			links = append(links, ContactLink{Kind: "whatsapp", Label: v, URL: "https://wa.me/" + digits})
		}
	}
	if v := value(b.Phone); v != "" {
		links = append(links, ContactLink{Kind: "phone", Label: v, URL: "tel:" + strings.ReplaceAll(v, " ", "")})
	}
	if v := value(b.Email); v != "" {
		links = append(links, ContactLink{Kind: "email", Label: v, URL: "mailto:" + v})
	}
	if v := value(b.Website); v != "" {
		url := v
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			url = "https://" + url
		}
		links = append(links, ContactLink{Kind: "website", Label: v, URL: url})
	}

	return links
}

type AmenityView struct {
	Name  string  `json:"name"`
	Image *string `json:"image"`
	Order int     `json:"order"`
}

type Landing struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Slug         string             `json:"slug"`
	MainImage    *string            `json:"mainImage"`
	Logo         *string            `json:"logo"`
	FacadeImage  *string            `json:"facadeImage"`
	InitialVideo *string            `json:"initialVideo"`
	Brochure     *string            `json:"brochure"`
	Location     *location.Location `json:"location"`
	Contacts     []ContactLink      `json:"contacts"`
	Amenities    []AmenityView      `json:"amenities"`
	Steps        []Step             `json:"steps"`
	Locations    int                `json:"locations"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// Steps is the narrative sequence of the public pages. The intro video is
// skipped when the building has none.
func Steps(b *model.Building) []Step {
	if value(b.InitialVideo) == "" {
		return []Step{StepLanding, StepFacade}
	}
	return []Step{StepLanding, StepVideo, StepFacade}
}

func BuildLanding(b *model.Building) Landing {
	amenities := make([]AmenityView, 0, len(b.Amenities))
	for _, a := range b.Amenities {
		amenities = append(amenities, AmenityView{Name: a.Name, Image: a.Image, Order: a.Order})
	}

	return Landing{
		ID:           b.ID,
		Name:         b.Name,
		Slug:         b.Slug,
		MainImage:    b.MainImage,
		Logo:         b.Logo,
		FacadeImage:  b.FacadeImage,
		InitialVideo: b.InitialVideo,
		Brochure:     b.Brochure,
		Location:     location.Describe(b.Address, b.Latitude, b.Longitude),
		Contacts:     Contacts(b),
		Amenities:    amenities,
		Steps:        Steps(b),
		Locations:    len(b.FacadePoints),
		CreatedAt:    b.CreatedAt,
	}
}

type Marker struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Location  string           `json:"location"`
	X         float64          `json:"x"`
	Y         float64          `json:"y"`
	Thumbnail *string          `json:"thumbnail"`
	Pixel     *placement.Pixel `json:"pixel,omitempty"`
}

type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Facade struct {
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Logo        *string   `json:"logo"`
	FacadeImage *string   `json:"facadeImage"`
	Viewport    *Viewport `json:"viewport,omitempty"`
	Markers     []Marker  `json:"markers"`
}

// BuildFacade lists one marker per facade point in creation order. A nil
// viewport leaves markers in percentages only.
func BuildFacade(b *model.Building, viewport *Viewport) (Facade, error) {
	markers := make([]Marker, 0, len(b.FacadePoints))
	for _, p := range b.FacadePoints {
		m := Marker{
			ID:       p.ID,
			Name:     p.Name,
			Location: LocationSlug(p.Name),
			X:        p.X,
			Y:        p.Y,
		}
		if len(p.Images) > 0 {
			thumb := p.Images[0]
			m.Thumbnail = &thumb
		}
		if viewport != nil {
			px, err := placement.ToPixels(placement.Point{X: p.X, Y: p.Y}, viewport.Width, viewport.Height)
			if err != nil {
				return Facade{}, err
			}
			m.Pixel = &px
		}
		markers = append(markers, m)
	}

	return Facade{
		Name:        b.Name,
		Slug:        b.Slug,
		Logo:        b.Logo,
		FacadeImage: b.FacadeImage,
		Viewport:    viewport,
		Markers:     markers,
	}, nil
}

type BuildingRef struct {
	Name string  `json:"name"`
	Slug string  `json:"slug"`
	Logo *string `json:"logo"`
}

type LocationDetail struct {
	Building BuildingRef       `json:"building"`
	Location string            `json:"location"`
	Point    model.FacadePoint `json:"point"`
	Modes    []ViewMode        `json:"modes"`
	Features []string          `json:"features"`
	Previous *string           `json:"previous"`
	Next     *string           `json:"next"`
}

// ViewModes lists the detail tabs a point has content for. The gallery is
// always offered since it is the default tab.
func ViewModes(p *model.FacadePoint) []ViewMode {
	modes := []ViewMode{ViewGallery}
	if len(p.ViewImages) > 0 {
		modes = append(modes, ViewViews)
	}
	if value(p.FloorPlan) != "" {
		modes = append(modes, ViewFloorPlan)
	}
	if value(p.Tour3dURL) != "" {
		modes = append(modes, ViewTour)
	}
	return modes
}

func Features(p *model.FacadePoint) []string {
	features := []string{}
	if p.HasBalcony {
		features = append(features, "Balcony")
	}
	if p.HasLaundry {
		features = append(features, "Laundry")
	}
	if p.HasTerrace {
		features = append(features, "Terrace")
	}
	if p.HasGameRoom {
		features = append(features, "Game room")
	}
	return features
}

// FindLocation resolves a location slug to its facade point. The first
// match in creation order wins when two points share a slug.
func FindLocation(b *model.Building, slug string) (*LocationDetail, bool) {
	for i := range b.FacadePoints {
		p := b.FacadePoints[i]
		if LocationSlug(p.Name) != slug {
			continue
		}

		detail := &LocationDetail{
			Building: BuildingRef{Name: b.Name, Slug: b.Slug, Logo: b.Logo},
			Location: slug,
			Point:    p,
			Modes:    ViewModes(&p),
			Features: Features(&p),
		}
		if i > 0 {
			prev := LocationSlug(b.FacadePoints[i-1].Name)
			detail.Previous = &prev
		}
		if i < len(b.FacadePoints)-1 {
			next := LocationSlug(b.FacadePoints[i+1].Name)
			detail.Next = &next
		}
		return detail, true
	}
	return nil, false
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

package chatbot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/larssonfhm/UCVBienestar-server/cmd/models"
	"github.com/larssonfhm/UCVBienestar-server/service/appointment"
	"github.com/larssonfhm/UCVBienestar-server/service/resource"
	"github.com/larssonfhm/UCVBienestar-server/service/workshop"
)

// maxResourceResults caps the searchResources tool output.
const maxResourceResults = 3

// navigationLinks is the fixed page-name-to-path map the model can offer as
// [button:...](...) directives. Keys are what the model passes; anything
// else is an unknown page.
var navigationLinks = map[string]string{
	"inicio":   "/dashboard",
	"citas":    "/dashboard/appointments",
	"chat":     "/dashboard/chat",
	"recursos": "/dashboard/resources",
	"talleres": "/dashboard/workshops",
	"perfil":   "/dashboard/profile",
}

// Session is the caller identity threaded from the JWT context. Zero values
// mean anonymous: tools never invent data for unknown users.
type Session struct {
	UserID   uint
	UserName string
}

// Tools executes the read-only lookups the model may request. No write tool
// is exposed.
type Tools struct {
	db *gorm.DB
}

func NewTools(db *gorm.DB) *Tools {
	return &Tools{db: db}
}

func rawSchema(s string) json.RawMessage {
	return json.RawMessage(s)
}

// Definitions lists the tool schemas handed to the model.
func (t *Tools) Definitions() []ToolDef {
	return []ToolDef{
		{
			Type: "function",
			Function: FunctionDef{
				Name:        "searchResources",
				Description: "Busca recursos de bienestar (artículos, guías, herramientas) por título o descripción. Devuelve hasta 3 coincidencias.",
				Parameters: rawSchema(`{
					"type": "object",
					"properties": {
						"query": {"type": "string", "description": "Texto a buscar en el título o la descripción"}
					},
					"required": ["query"]
				}`),
			},
		},
		{
			Type: "function",
			Function: FunctionDef{
				Name:        "getUserAppointments",
				Description: "Devuelve las citas del usuario actual, de la más reciente a la más antigua. Vacío si no hay sesión iniciada.",
				Parameters:  rawSchema(`{"type": "object", "properties": {}}`),
			},
		},
		{
			Type: "function",
			Function: FunctionDef{
				Name:        "getAnnouncements",
				Description: "Devuelve los anuncios actuales: el taller ganador de la votación (si lo hay), el artículo destacado y un taller sugerido.",
				Parameters:  rawSchema(`{"type": "object", "properties": {}}`),
			},
		},
		{
			Type: "function",
			Function: FunctionDef{
				Name:        "getWorkshopInfo",
				Description: "Devuelve las categorías de talleres con sus actividades y votos. Acepta un filtro opcional por título de categoría.",
				Parameters: rawSchema(`{
					"type": "object",
					"properties": {
						"categoryQuery": {"type": "string", "description": "Filtro opcional sobre el título de la categoría"}
					}
				}`),
			},
		},
		{
			Type: "function",
			Function: FunctionDef{
				Name:        "getNavigationLink",
				Description: "Devuelve la ruta de una página de la aplicación. Páginas válidas: inicio, citas, chat, recursos, talleres, perfil.",
				Parameters: rawSchema(`{
					"type": "object",
					"properties": {
						"page": {"type": "string", "enum": ["inicio", "citas", "chat", "recursos", "talleres", "perfil"]}
					},
					"required": ["page"]
				}`),
			},
		},
	}
}

// Execute runs one requested tool call and returns its JSON result. Tool
// errors come back as JSON too so the model can recover in-conversation.
func (t *Tools) Execute(ctx context.Context, call FunctionCall, session Session) (string, error) {
	switch call.Name {
	case "searchResources":
		var args struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", fmt.Errorf("invalid searchResources arguments: %w", err)
		}
		return t.searchResources(args.Query)
	case "getUserAppointments":
		return t.getUserAppointments(session)
	case "getAnnouncements":
		return t.getAnnouncements()
	case "getWorkshopInfo":
		var args struct {
			CategoryQuery string `json:"categoryQuery"`
		}
		if call.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
				return "", fmt.Errorf("invalid getWorkshopInfo arguments: %w", err)
			}
		}
		return t.getWorkshopInfo(args.CategoryQuery)
	case "getNavigationLink":
		var args struct {
			Page string `json:"page"`
		}
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", fmt.Errorf("invalid getNavigationLink arguments: %w", err)
		}
		return t.getNavigationLink(args.Page)
	default:
		return "", fmt.Errorf("unknown tool %q", call.Name)
	}
}

type resourceResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	URL         string `json:"url"`
}

func (t *Tools) searchResources(query string) (string, error) {
	matches := resource.Search(query)
	if len(matches) > maxResourceResults {
		matches = matches[:maxResourceResults]
	}
	results := make([]resourceResult, 0, len(matches))
	for _, r := range matches {
		results = append(results, resourceResult{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Category:    r.Category,
			URL:         r.URL,
		})
	}
	return marshal(map[string]interface{}{"resources": results})
}

type appointmentResult struct {
	Reference    string    `json:"reference"`
	Professional string    `json:"professional"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	IsVirtual    bool      `json:"is_virtual"`
}

func (t *Tools) getUserAppointments(session Session) (string, error) {
	// Anonymous callers get an empty list, never invented data.
	if session.UserID == 0 {
		return marshal(map[string]interface{}{"appointments": []appointmentResult{}})
	}

	var appointments []models.Appointment
	if err := t.db.Where("user_id = ?", session.UserID).
		Order("created_at DESC").Find(&appointments).Error; err != nil {
		return "", err
	}

	now := time.Now()
	results := make([]appointmentResult, 0, len(appointments))
	for i := range appointments {
		a := &appointments[i]
		results = append(results, appointmentResult{
			Reference:    a.Reference,
			Professional: a.Location,
			StartTime:    a.StartTime,
			EndTime:      a.EndTime,
			Status:       appointment.EffectiveStatus(a, now),
			IsVirtual:    a.IsVirtual,
		})
	}
	return marshal(map[string]interface{}{"appointments": results})
}

func (t *Tools) getAnnouncements() (string, error) {
	announcement, err := workshop.BuildAnnouncement(t.db)
	if err != nil {
		return "", err
	}

	out := map[string]interface{}{}
	if announcement.WinningActivity != nil {
		out["winning_activity"] = map[string]interface{}{
			"title": announcement.WinningActivity.Title,
			"votes": announcement.WinningActivity.Votes,
		}
	}
	if announcement.SuggestedCategory != nil {
		out["suggested_workshop"] = announcement.SuggestedCategory.Title
	}
	if announcement.FeaturedResource != nil {
		out["featured_resource"] = map[string]interface{}{
			"title": announcement.FeaturedResource.Title,
			"url":   announcement.FeaturedResource.URL,
		}
	}
	return marshal(out)
}

func (t *Tools) getWorkshopInfo(categoryQuery string) (string, error) {
	var categories []models.WorkshopCategory
	query := t.db.Preload("Activities", func(db *gorm.DB) *gorm.DB {
		return db.Order("workshop_activities.id ASC")
	}).Order("position ASC")
	if categoryQuery != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(categoryQuery)+"%")
	}
	if err := query.Find(&categories).Error; err != nil {
		return "", err
	}

	type activityInfo struct {
		Title string `json:"title"`
		Votes int    `json:"votes"`
	}
	type categoryInfo struct {
		Category   string         `json:"category"`
		Activities []activityInfo `json:"activities"`
	}
	results := make([]categoryInfo, 0, len(categories))
	for _, c := range categories {
		info := categoryInfo{Category: c.Title, Activities: []activityInfo{}}
		for _, a := range c.Activities {
			info.Activities = append(info.Activities, activityInfo{Title: a.Title, Votes: a.Votes})
		}
		results = append(results, info)
	}
	return marshal(map[string]interface{}{"workshops": results})
}

func (t *Tools) getNavigationLink(page string) (string, error) {
	path, ok := navigationLinks[strings.ToLower(page)]
	if !ok {
		return marshal(map[string]string{"error": fmt.Sprintf("unknown page %q", page)})
	}
	return marshal(map[string]string{"page": page, "path": path})
}

func marshal(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

package workshop

import (
	"gorm.io/gorm"

	"github.com/larssonfhm/UCVBienestar-server/cmd/models"
)

// seedCatalog is the fixed workshop offering students vote on. Vote counts
// live in the database; titles are only inserted when missing so re-running
// migrations never resets votes.
var seedCatalog = []struct {
	Category   string
	Activities []string
}{
	{
		Category:   "Manejo del Estrés",
		Activities: []string{"Mindfulness y Reducción de Estrés", "Técnicas de Respiración Consciente"},
	},
	{
		Category:   "Bienestar Emocional",
		Activities: []string{"Diario de Gratitud", "Gestión de la Ansiedad ante Exámenes"},
	},
	{
		Category:   "Hábitos Saludables",
		Activities: []string{"Higiene del Sueño para Estudiantes", "Pausas Activas en Época de Clases"},
	},
}

func Seed(db *gorm.DB) error {
	for pos, entry := range seedCatalog {
		category := models.WorkshopCategory{Title: entry.Category, Position: pos}
		if err := db.Where(models.WorkshopCategory{Title: entry.Category}).
			FirstOrCreate(&category).Error; err != nil {
			return err
		}
		for _, title := range entry.Activities {
			activity := models.WorkshopActivity{CategoryID: category.ID, Title: title}
			if err := db.Where(models.WorkshopActivity{CategoryID: category.ID, Title: title}).
				FirstOrCreate(&activity).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

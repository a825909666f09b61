package resource

import "strings"

const (
	CategoryArticle  = "articulo"
	CategoryWorkshop = "taller"
	CategoryTool     = "herramienta"
)

type Resource struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Authors         []string `json:"authors,omitempty"`
	PublicationInfo string   `json:"publication_info,omitempty"`
	Category        string   `json:"category"`
	Content         string   `json:"content"`
	ImageID         string   `json:"image_id"`
	URL             string   `json:"url"`
}

// catalog is the static wellbeing library. It ships with the binary; there
// is no admin surface for editing it.
var catalog = []Resource{
	{
		ID:              "res-1",
		Title:           "Atención a la salud mental en el Sistema Nacional de Salud: una mirada interniveles al Plan de Acción 2025-2027.",
		Description:     "Revisión del Plan de Acción en Salud Mental 2025-2027 en España, destacando la necesidad de reforzar recursos en atención primaria.",
		Authors:         []string{"Bárbara Marco-Gómez", "José Luis de la Fuente Madero", "Clara Severo-Sánchez", "Alba Gállego-Royo", "Candela Pérez-Álvarez", "Inés Sebastián-Sánchez"},
		PublicationInfo: "Elsevier España, S.L.U. (Revista Atención Primaria)",
		Category:        CategoryArticle,
		Content:         "Este texto ofrece una revisión interniveles (atención primaria y especializada) del Plan de Acción en Salud Mental 2025-2027 aprobado en España. Se valoran positivamente las líneas estratégicas orientadas a modelos comunitarios y centrados en la dignidad, pero se señala la falta de un refuerzo más explícito de recursos, tiempos y formación para que los equipos de atención primaria asuman su papel clave de forma efectiva.",
		ImageID:         "resource-1",
		URL:             "https://www.scopus.com/pages/publications/105008522463?origin=resultslist",
	},
	{
		ID:              "res-2",
		Title:           "Efectos de los cambios de temperatura secundarios al cambio climático en la salud humana.",
		Description:     "Análisis de cómo el cambio climático y el calor extremo impactan la salud física y mental, proponiendo estrategias desde la atención primaria.",
		Authors:         []string{"María Cristina Almécija Pérez", "Marta Gómez Morillo", "Carlos Llano Gómez", "Nima Peyman-Fard Shafi-Tabatabaei"},
		PublicationInfo: "Elsevier España, S.L.U. (Revista Atención Primaria)",
		Category:        CategoryArticle,
		Content:         "El cambio climático intensifica el calor extremo, aumentando la mortalidad y morbilidad, afectando especialmente a grupos vulnerables y agravando enfermedades cardiovasculares, renales y mentales. El estudio propone estrategias integrales, equitativas y transformadoras desde la atención primaria para identificar vulnerabilidades, educar y exigir justicia climática, ya que la adaptación puede reducir hasta el 80% de la mortalidad relacionada con el calor.",
		ImageID:         "resource-2",
		URL:             "https://www.scopus.com/pages/publications/105017332961?origin=resultslist",
	},
	{
		ID:              "res-3",
		Title:           "Experiences of Epistemic Injustice in the Spanish Psychiatric System: A Qualitative Analysis from the Perspective of Mental Health Activists",
		Description:     "Estudio cualitativo sobre cómo los pacientes del sistema psiquiátrico español sienten que no se les escucha ni se les involucra en su tratamiento.",
		Authors:         []string{"Juan Brea-Iglesias", "David Alonso González", "Andrés Arias Astray"},
		PublicationInfo: "European Public & Social Innovation Review",
		Category:        CategoryArticle,
		Content:         "Este estudio cualitativo con pacientes y activistas del sistema psiquiátrico español identifica ejemplos de injusticia testimonial y hermenéutica. Los participantes reportaron no sentirse escuchados, carecer de participación en las decisiones de su tratamiento y enfrentar barreras para la participación social. Se concluye la necesidad urgente de involucrar a los pacientes en las decisiones de su cuidado y promover su inclusión social.",
		ImageID:         "resource-3",
		URL:             "https://www.scopus.com/pages/publications/105015402602?origin=resultslist",
	},
	{
		ID:              "res-4",
		Title:           "Understanding postmigration stress in forcibly displaced people in Austria",
		Description:     "Protocolo de un estudio en Austria para entender el estrés post-migración y su impacto en la salud mental de personas desplazadas.",
		Authors:         []string{"Rojan Amini-Nejad", "Urs M. Nater", "Ricarda Mewes"},
		PublicationInfo: "Informa UK Limited (European Journal of Psychotraumatology)",
		Category:        CategoryArticle,
		Content:         "Este estudio investiga el impacto del estrés post-migración en la salud mental de adultos de habla árabe y farsi que viven en Austria, mediante un diseño de evaluación ambulatoria de 14 días. Los participantes completarán cuestionarios diarios y entregarán muestras de saliva para medir cortisol y alfa-amilasa. Los resultados podrían guiar intervenciones escalables basadas en teléfonos móviles para esta población desatendida.",
		ImageID:         "resource-4",
		URL:             "https://www.scopus.com/pages/publications/105017936056?origin=resultslist",
	},
	{
		ID:              "res-5",
		Title:           "Associations between low food security and subjective memory complaints among Latino adults.",
		Description:     "Investigación que vincula la inseguridad alimentaria con problemas de memoria, mediados por la ansiedad y la depresión en adultos latinos.",
		Authors:         []string{"Joseph Saenz", "Laura Tanner"},
		PublicationInfo: "BMC Public Health (Springer Nature)",
		Category:        CategoryArticle,
		Content:         "El estudio analizó datos de 2,481 pacientes latinos y encontró que la baja seguridad alimentaria se relaciona con mayores quejas de memoria subjetiva. Esta asociación desaparece al ajustar por ansiedad y depresión, lo que sugiere que la mala salud mental podría mediar la relación entre ambas variables.",
		ImageID:         "resource-5",
		URL:             "https://www.scopus.com/pages/publications/105002034660?origin=resultslist",
	},
	{
		ID:              "res-6",
		Title:           "Mental health and catastrophic health expenditures in conflict-affected regions of Colombia.",
		Description:     "Estudio en Colombia que muestra cómo los problemas de salud mental aumentan los gastos de bolsillo en salud en zonas de conflicto.",
		Authors:         []string{"Sebastian Leon-Giraldo", "Nicolas Jater-Maldonado", "Javier Garcia-Estevez", "Oscar Bernal"},
		PublicationInfo: "International Journal for Equity in Health (Springer Nature)",
		Category:        CategoryArticle,
		Content:         "Este estudio analiza los gastos catastróficos de salud (CHE) y de bolsillo (OOP) en Meta, Colombia, antes y durante la COVID-19. Las personas con tendencia a trastornos mentales (SRQ+) presentan mayores probabilidades de incurrir en gastos OOP y marginalmente mayores en CHE. Se subraya la necesidad de salvaguardas financieras y programas integrales de salud mental para comunidades marginadas.",
		ImageID:         "resource-6",
		URL:             "https://www.scopus.com/pages/publications/105005806175?origin=resultslist",
	},
}

// phrases rotate on the login screen carousel.
var phrases = []string{
	"La única forma de hacer un gran trabajo es amar lo que haces.",
	"El éxito no es definitivo, el fracaso no es fatal: lo que cuenta es el coraje para continuar.",
	"Cree que puedes y ya estás a medio camino.",
	"El mejor momento para plantar un árbol fue hace 20 años. El segundo mejor momento es ahora.",
	"Tu tiempo es limitado, no lo desperdicies viviendo la vida de otra persona.",
	"La mente es todo. En lo que piensas, te conviertes.",
	"Un viaje de mil millas comienza con un solo paso.",
}

func Catalog() []Resource {
	return catalog
}

func Phrases() []string {
	return phrases
}

func ByID(id string) (Resource, bool) {
	for _, r := range catalog {
		if r.ID == id {
			return r, true
		}
	}
	return Resource{}, false
}

// FirstByCategory returns the first catalog entry of the given category, in
// catalog order.
func FirstByCategory(category string) (Resource, bool) {
	for _, r := range catalog {
		if r.Category == category {
			return r, true
		}
	}
	return Resource{}, false
}

// Search returns resources whose title or description contains the query,
// case-insensitive, preserving catalog order. No relevance ranking is
// attempted.
func Search(query string) []Resource {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var matches []Resource
	for _, r := range catalog {
		if strings.Contains(strings.ToLower(r.Title), q) ||
			strings.Contains(strings.ToLower(r.Description), q) {
			matches = append(matches, r)
		}
	}
	return matches
}

package letter

import (
	"strings"

	"github.com/Yann31150/Rechercheannonces/internal/models"
	"github.com/Yann31150/Rechercheannonces/internal/skills"
)

// Template roles detected from the posting title.
const (
	roleDataScientist = "data_scientist"
	roleDataAnalyst   = "data_analyst"
	roleDataEngineer  = "data_engineer"
	roleAlternance    = "alternance"
)

var letterTemplates = map[string]string{
	roleDataScientist: `Bonjour,

Je me permets de vous adresser ma candidature pour le poste de {job_title} que vous proposez.

{personal_intro}

Mon parcours en Data Science m'a permis de développer des compétences solides en {key_skills}, ce qui correspond aux exigences de votre offre. J'ai notamment travaillé sur {relevant_experience}.

{why_company}

Je serais ravi de pouvoir discuter avec vous de la manière dont mon profil pourrait contribuer à vos projets.

Dans l'attente de votre retour, je vous prie d'agréer mes salutations distinguées.

{your_name}
{contact_info}`,

	roleDataAnalyst: `Bonjour,

Par la présente, je souhaite vous faire part de mon intérêt pour le poste de {job_title} au sein de votre entreprise.

{personal_intro}

Mes compétences en analyse de données, notamment en {key_skills}, me permettent de répondre aux besoins exprimés dans votre offre. J'ai une expérience significative dans {relevant_experience}.

{why_company}

Je serais enchanté de vous rencontrer pour échanger sur cette opportunité.

Cordialement,
{your_name}
{contact_info}`,

	roleDataEngineer: `Bonjour,

Je vous adresse ma candidature pour le poste de {job_title}.

{personal_intro}

Mon expertise en ingénierie des données, particulièrement en {key_skills}, correspond aux compétences recherchées. J'ai notamment contribué à {relevant_experience}.

{why_company}

Je reste à votre disposition pour un entretien.

Bien cordialement,
{your_name}
{contact_info}`,

	roleAlternance: `Bonjour,

Je me permets de vous adresser ma candidature pour le poste en alternance de {job_title}.

Actuellement en formation, je recherche une alternance qui me permettrait d'appliquer mes connaissances théoriques en {key_skills} dans un contexte professionnel concret.

{personal_intro}

{why_company}

Je suis motivé et prêt à m'investir pleinement dans cette alternance.

Dans l'attente de votre retour,
{your_name}
{contact_info}`,
}

// TemplateGenerator fills a role-specific French template with details from
// the posting and the applicant.
type TemplateGenerator struct {
	fallbackSkills []string
}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{
		fallbackSkills: []string{"Python", "SQL", "Machine Learning"},
	}
}

// SetFallbackSkills overrides the skills used when the posting text names
// none from the vocabulary.
func (g *TemplateGenerator) SetFallbackSkills(skillNames []string) {
	if len(skillNames) > 0 {
		g.fallbackSkills = skillNames
	}
}

func (g *TemplateGenerator) Generate(job models.Job, info PersonalInfo) (string, error) {
	template := letterTemplates[detectRole(job.Title)]

	found := keySkills(job)
	if len(found) == 0 {
		found = g.fallbackSkills
	}
	if len(found) > 3 {
		found = found[:3]
	}

	replacer := strings.NewReplacer(
		"{job_title}", valueOr(job.Title, "ce poste"),
		"{company}", valueOr(job.Company, "votre entreprise"),
		"{key_skills}", strings.Join(found, ", "),
		"{your_name}", info.Name,
		"{contact_info}", contactInfo(info),
		"{personal_intro}", valueOr(info.Intro, defaultIntro),
		"{relevant_experience}", valueOr(info.Experience, "des projets variés en data"),
		"{why_company}", whyCompany(job),
	)
	return replacer.Replace(template), nil
}

func detectRole(title string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "alternance") || strings.Contains(lower, "apprentissage") || strings.Contains(lower, "stage"):
		return roleAlternance
	case strings.Contains(lower, "analyst"):
		return roleDataAnalyst
	case strings.Contains(lower, "engineer") || strings.Contains(lower, "ingénieur"):
		return roleDataEngineer
	default:
		return roleDataScientist
	}
}

// keySkills extracts the vocabulary skills named in the posting text,
// ordered by vocabulary rank.
func keySkills(job models.Job) []string {
	text := strings.ToLower(job.Title + " " + job.Description)
	var found []string
	for _, skill := range skills.ExactSkills {
		if strings.Contains(text, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}
	if len(found) > 5 {
		found = found[:5]
	}
	return found
}

const defaultIntro = "Passionné par la data et l'analyse, je suis convaincu que mon profil correspond à vos attentes."

var whyCompanyReasons = []string{
	"votre entreprise %s représente une opportunité passionnante pour mettre en pratique mes compétences en data.",
	"je suis particulièrement attiré par %s et ses projets innovants dans le domaine de la data.",
	"votre entreprise %s correspond parfaitement à mes aspirations professionnelles.",
	"je serais ravi de contribuer aux projets de %s et d'apporter ma vision de la data science.",
}

// whyCompany varies the sentence deterministically on the company name so
// repeated letters for the same company stay consistent.
func whyCompany(job models.Job) string {
	company := strings.TrimSpace(job.Company)
	if company == "" || company == "N/A" {
		return "votre entreprise représente une opportunité intéressante pour mon développement professionnel dans le domaine de la data."
	}

	var sum int
	for _, r := range company {
		sum += int(r)
	}
	reason := whyCompanyReasons[sum%len(whyCompanyReasons)]
	return strings.Replace(reason, "%s", company, 1)
}

func contactInfo(info PersonalInfo) string {
	var parts []string
	if info.Email != "" {
		parts = append(parts, info.Email)
	}
	if info.Phone != "" {
		parts = append(parts, "Tél: "+info.Phone)
	}
	if info.Address != "" {
		parts = append(parts, info.Address)
	}
	return strings.Join(parts, "\n")
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// Package prediction shapes the clinical forms into the backend's prediction
// requests and tracks each submission through idle, submitting, succeeded
// and failed.
package prediction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"oncology-dashboard/internal/models"
)

// Input is one of TreatmentInput, SurvivalInput or ImageInput.
type Input interface {
	Kind() models.PredictionType
}

// TreatmentInput is the clinical and genetic form of the treatment
// recommender. Gene markers are 0 or 1.
type TreatmentInput struct {
	AgeAtDiagnosis             float64 `json:"age_at_diagnosis" binding:"min=0,max=120"`
	NeoplasmHistologicGrade    int     `json:"neoplasm_histologic_grade" binding:"min=1,max=3"`
	HER2Status                 string  `json:"her2_status" binding:"oneof=Positive Negative"`
	ERStatus                   string  `json:"er_status" binding:"oneof=Positive Negative"`
	PRStatus                   string  `json:"pr_status" binding:"oneof=Positive Negative"`
	TumorSize                  float64 `json:"tumor_size" binding:"min=0"`
	TumorStage                 int     `json:"tumor_stage" binding:"min=0,max=4"`
	LymphNodesExaminedPositive int     `json:"lymph_nodes_examined_positive" binding:"min=0"`
	MutationCount              int     `json:"mutation_count" binding:"min=0"`
	NottinghamPrognosticIndex  float64 `json:"nottingham_prognostic_index" binding:"min=0"`
	InferredMenopausalState    string  `json:"inferred_menopausal_state" binding:"oneof=Pre Post"`
	BRCA1                      int     `json:"brca1" binding:"min=0,max=1"`
	BRCA2                      int     `json:"brca2" binding:"min=0,max=1"`
	TP53                       int     `json:"tp53" binding:"min=0,max=1"`
	ERBB2                      int     `json:"erbb2" binding:"min=0,max=1"`
	ESR1                       int     `json:"esr1" binding:"min=0,max=1"`
	PGR                        int     `json:"pgr" binding:"min=0,max=1"`
	AKT1                       int     `json:"akt1" binding:"min=0,max=1"`
	PIK3CA                     int     `json:"pik3ca" binding:"min=0,max=1"`
	MKI67                      int     `json:"mki67" binding:"min=0,max=1"`
	CDH1                       int     `json:"cdh1" binding:"min=0,max=1"`
}

func (TreatmentInput) Kind() models.PredictionType { return models.PredictionTreatment }

// DefaultTreatmentInput is the form as it is first shown and after a reset.
func DefaultTreatmentInput() TreatmentInput {
	return TreatmentInput{
		AgeAtDiagnosis:            50,
		NeoplasmHistologicGrade:   2,
		HER2Status:                "Negative",
		ERStatus:                  "Positive",
		PRStatus:                  "Positive",
		TumorSize:                 20,
		TumorStage:                2,
		MutationCount:             5,
		NottinghamPrognosticIndex: 3.4,
		InferredMenopausalState:   "Post",
		ESR1:                      1,
		PGR:                       1,
	}
}

// SurvivalInput extends the treatment form with the METABRIC clinical set
// and the two outcome durations.
type SurvivalInput struct {
	TreatmentInput

	TMBNonsynonymous        float64 `json:"tmb_nonsynonymous" binding:"min=0"`
	TypeOfBreastSurgery     string  `json:"type_of_breast_surgery" binding:"oneof=Mastectomy 'Breast Conserving'"`
	Cellularity             string  `json:"cellularity" binding:"oneof=Low Moderate High"`
	Chemotherapy            int     `json:"chemotherapy" binding:"min=0,max=1"`
	HormoneTherapy          int     `json:"hormone_therapy" binding:"min=0,max=1"`
	RadioTherapy            int     `json:"radio_therapy" binding:"min=0,max=1"`
	Pam50ClaudinLowSubtype  string  `json:"pam50_claudin_low_subtype" binding:"oneof=LumA LumB Her2 Basal claudin-low Normal NC"`
	IntegrativeCluster      string  `json:"integrative_cluster" binding:"required"`
	PrimaryTumorLaterality  string  `json:"primary_tumor_laterality" binding:"oneof=Left Right"`
	HistologicSubtype       string  `json:"histologic_subtype" binding:"required"`
	ThreeGeneClassifier     string  `json:"three_gene_classifier" binding:"required"`
	Cohort                  int     `json:"cohort" binding:"min=1,max=5"`
	OverallSurvivalMonths   float64 `json:"overall_survival_months" binding:"min=0"`
	RelapseFreeStatusMonths float64 `json:"relapse_free_status_months" binding:"min=0"`
}

func (SurvivalInput) Kind() models.PredictionType { return models.PredictionSurvival }

// ImageInput is a tumor image upload.
type ImageInput struct {
	FileName string `binding:"required"`
	Data     []byte `binding:"required,min=1"`
}

func (ImageInput) Kind() models.PredictionType { return models.PredictionImage }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// same tags gin reads when a handler binds the form
	v.SetTagName("binding")
	return v
}

// ErrInvalidInput is returned for a form that fails validation.
var ErrInvalidInput = errors.New("invalid prediction input")

// Validate checks a form against the ranges the backend models accept.
func Validate(in Input) error {
	if in == nil {
		return fmt.Errorf("%w: no form", ErrInvalidInput)
	}
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(fields, ", "))
}

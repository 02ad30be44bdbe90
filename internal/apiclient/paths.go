package apiclient

// Backend endpoint paths, relative to the configured base URL.
const (
	LoginPath         = "/api/auth/login/"
	RefreshPath       = "/api/auth/login/refresh/"
	PasswordResetPath = "/api/auth/password-reset/"
	RegisterPath      = "/api/auth/register/"
	UsersPath         = "/api/auth/users/"

	TreatmentPredictPath = "/api/predictor/predict/"
	SurvivalPredictPath  = "/api/survival/predict-survival/"
	ImagePredictPath     = "/api/image_predict/"

	PatientsPath    = "/api/patients/"
	DoctorsPath     = "/api/doctors/"
	PredictionsPath = "/api/predictions/predictions/"
)

package i18n

type Language string

const (
	English Language = "en"
	Italian Language = "it"
)

var currentLang = English

type Messages struct {
	// General
	Loading      string
	Error        string
	Yes          string
	No           string
	Notes        string
	Help         string
	Exit         string
	Logout       string
	CheckingSess string

	// Auth
	SignIn            string
	Register          string
	Username          string
	Password          string
	PleaseWait        string
	NoAccount         string
	AlreadyRegistered string
	SwitchRegister    string
	SwitchLogin       string

	// Notes
	NewNote            string
	DeleteNote         string
	DeleteConfirm      string
	Search             string
	SearchHint         string
	NoNotes            string
	NoNoteSelected     string
	Untitled           string
	Edit               string
	Save               string
	Saving             string
	Cancel             string
	TitlePlaceholder   string
	ContentPlaceholder string
	CreatedAt          string
	ModifiedAt         string
	SessionExpired     string

	// Actions
	EnterConfirm string
	EscCancel    string

	// Keys descriptions (short)
	KeyUp     string
	KeyDown   string
	KeyEnter  string
	KeyEdit   string
	KeyEscape string
	KeySave   string
	KeyNew    string
	KeyDelete string
	KeySearch string
	KeyQuit   string
	KeyTheme  string
	KeyLogout string
	KeyToggle string
	KeyTab    string
}

var messages = map[Language]Messages{
	English: {
		Loading:      "Loading...",
		Error:        "Error",
		Yes:          "Yes",
		No:           "No",
		Notes:        "notes",
		Help:         "Help",
		Exit:         "Exit",
		Logout:       "Logout",
		CheckingSess: "Restoring session...",

		SignIn:            "Sign In",
		Register:          "Register",
		Username:          "Username",
		Password:          "Password",
		PleaseWait:        "Please wait...",
		NoAccount:         "No account?",
		AlreadyRegistered: "Already registered?",
		SwitchRegister:    "register",
		SwitchLogin:       "sign in",

		NewNote:            "New Note",
		DeleteNote:         "Delete Note",
		DeleteConfirm:      "Delete \"%s\"?",
		Search:             "Search",
		SearchHint:         "Search notes...",
		NoNotes:            "No notes found.",
		NoNoteSelected:     "Select a note or create a new one",
		Untitled:           "Untitled",
		Edit:               "Edit",
		Save:               "Save",
		Saving:             "Saving...",
		Cancel:             "Cancel",
		TitlePlaceholder:   "Note Title",
		ContentPlaceholder: "Write your note here...",
		CreatedAt:          "Created",
		ModifiedAt:         "Modified",
		SessionExpired:     "Session expired, please sign in again",

		EnterConfirm: "[Enter] Confirm",
		EscCancel:    "[Esc] Cancel",

		KeyUp:     "up",
		KeyDown:   "down",
		KeyEnter:  "open",
		KeyEdit:   "edit",
		KeyEscape: "cancel",
		KeySave:   "save",
		KeyNew:    "new note",
		KeyDelete: "delete",
		KeySearch: "search",
		KeyQuit:   "quit",
		KeyTheme:  "theme",
		KeyLogout: "logout",
		KeyToggle: "switch mode",
		KeyTab:    "next field",
	},
	Italian: {
		Loading:      "Caricamento...",
		Error:        "Errore",
		Yes:          "Sì",
		No:           "No",
		Notes:        "note",
		Help:         "Aiuto",
		Exit:         "Esci",
		Logout:       "Disconnetti",
		CheckingSess: "Ripristino sessione...",

		SignIn:            "Accedi",
		Register:          "Registrati",
		Username:          "Nome utente",
		Password:          "Password",
		PleaseWait:        "Attendere...",
		NoAccount:         "Nessun account?",
		AlreadyRegistered: "Già registrato?",
		SwitchRegister:    "registrati",
		SwitchLogin:       "accedi",

		NewNote:            "Nuova nota",
		DeleteNote:         "Elimina nota",
		DeleteConfirm:      "Eliminare \"%s\"?",
		Search:             "Cerca",
		SearchHint:         "Cerca note...",
		NoNotes:            "Nessuna nota trovata.",
		NoNoteSelected:     "Seleziona una nota o creane una nuova",
		Untitled:           "Senza titolo",
		Edit:               "Modifica",
		Save:               "Salva",
		Saving:             "Salvataggio...",
		Cancel:             "Annulla",
		TitlePlaceholder:   "Titolo nota",
		ContentPlaceholder: "Scrivi qui la tua nota...",
		CreatedAt:          "Creata",
		ModifiedAt:         "Modificata",
		SessionExpired:     "Sessione scaduta, accedi di nuovo",

		EnterConfirm: "[Enter] Conferma",
		EscCancel:    "[Esc] Annulla",

		KeyUp:     "su",
		KeyDown:   "giù",
		KeyEnter:  "apri",
		KeyEdit:   "modifica",
		KeyEscape: "annulla",
		KeySave:   "salva",
		KeyNew:    "nuova nota",
		KeyDelete: "elimina",
		KeySearch: "cerca",
		KeyQuit:   "esci",
		KeyTheme:  "tema",
		KeyLogout: "disconnetti",
		KeyToggle: "cambia modo",
		KeyTab:    "campo successivo",
	},
}

func SetLanguage(lang Language) {
	if _, ok := messages[lang]; ok {
		currentLang = lang
	}
}

// T returns the message table for the active language.
func T() Messages {
	return messages[currentLang]
}

package app

import "github.com/huanfeng/mclauncher/pkg/models"

// LoadStatus tracks the version list fetch
type LoadStatus int

const (
	LoadIdle LoadStatus = iota
	Loading
	LoadReady
	LoadFailed
)

func (s LoadStatus) String() string {
	switch s {
	case Loading:
		return "loading"
	case LoadReady:
		return "ready"
	case LoadFailed:
		return "error"
	default:
		return "idle"
	}
}

// DownloadPhase tracks the current package download
type DownloadPhase int

const (
	NotDownloading DownloadPhase = iota
	Downloading
	DownloadComplete
	DownloadFailed
)

func (p DownloadPhase) String() string {
	switch p {
	case Downloading:
		return "downloading"
	case DownloadComplete:
		return "complete"
	case DownloadFailed:
		return "error"
	default:
		return "idle"
	}
}

// State is everything a renderer needs. It is never persisted.
type State struct {
	IsLoading          bool                       `json:"is_loading"`
	Downloading        bool                       `json:"downloading"`
	Progress           float64                    `json:"progress"`
	LastError          string                     `json:"last_error,omitempty"`
	LastSuccessMessage string                     `json:"last_success_message,omitempty"`
	DownloadedFilePath string                     `json:"downloaded_file_path,omitempty"`
	DeleteAvailable    bool                       `json:"delete_available"`
	LoadStatus         LoadStatus                 `json:"load_status"`
	LoadError          string                     `json:"load_error,omitempty"`
	DownloadPhase      DownloadPhase              `json:"download_phase"`
	PermissionGranted  bool                       `json:"permission_granted"`
	Versions           []models.VersionDescriptor `json:"versions"`
	RequestID          uint64                     `json:"request_id"`
}

// Event is a completed step fed to Reduce
type Event interface {
	event()
}

// LoadStarted marks a fetch issued with RequestID
type LoadStarted struct {
	RequestID uint64
}

// LoadSucceeded carries the sorted list of one fetch
type LoadSucceeded struct {
	RequestID uint64
	Versions  []models.VersionDescriptor
}

// LoadErrored carries the user message of a failed fetch
type LoadErrored struct {
	RequestID uint64
	Message   string
}

type PermissionChecked struct {
	Granted bool
}

type FilesScanned struct {
	Present bool
}

// ExistingSelected means the package was already on disk
type ExistingSelected struct {
	Path string
}

type DownloadStarted struct {
	Path string
}

type DownloadProgressed struct {
	Fraction float64
}

type DownloadSucceeded struct {
	Path    string
	Message string
}

type DownloadErrored struct {
	Message string
}

// InstallErrored replaces any download message with the failure
type InstallErrored struct {
	Message string
}

type FilesDeleted struct {
	Count int
}

type DeleteErrored struct {
	Message string
}

func (LoadStarted) event()        {}
func (LoadSucceeded) event()      {}
func (LoadErrored) event()        {}
func (PermissionChecked) event()  {}
func (FilesScanned) event()       {}
func (ExistingSelected) event()   {}
func (DownloadStarted) event()    {}
func (DownloadProgressed) event() {}
func (DownloadSucceeded) event()  {}
func (DownloadErrored) event()    {}
func (InstallErrored) event()     {}
func (FilesDeleted) event()       {}
func (DeleteErrored) event()      {}

// Reduce returns the state after e. It performs no I/O.
//
// Fetch results whose request id is not the latest issued are dropped,
// so overlapping reloads settle on the most recent request.
func Reduce(s State, e Event) State {
	switch e := e.(type) {
	case LoadStarted:
		// a request superseded before it was announced
		if e.RequestID < s.RequestID {
			return s
		}
		s.RequestID = e.RequestID
		s.IsLoading = true
		s.LoadStatus = Loading
		s.LoadError = ""

	case LoadSucceeded:
		if e.RequestID != s.RequestID {
			return s
		}
		s.IsLoading = false
		s.LoadStatus = LoadReady
		s.Versions = e.Versions

	case LoadErrored:
		if e.RequestID != s.RequestID {
			return s
		}
		// the previous list stays visible
		s.IsLoading = false
		s.LoadStatus = LoadFailed
		s.LoadError = e.Message

	case PermissionChecked:
		s.PermissionGranted = e.Granted

	case FilesScanned:
		s.DeleteAvailable = e.Present

	case ExistingSelected:
		s.DownloadedFilePath = e.Path
		s.Downloading = false
		s.DownloadPhase = NotDownloading
		s.DeleteAvailable = true
		s.LastError = ""
		s.LastSuccessMessage = ""

	case DownloadStarted:
		s.Downloading = true
		s.DownloadPhase = Downloading
		s.Progress = 0
		s.LastError = ""
		s.LastSuccessMessage = ""

	case DownloadProgressed:
		if !s.Downloading {
			return s
		}
		f := e.Fraction
		if f > 1 {
			f = 1
		}
		if f > s.Progress {
			s.Progress = f
		}

	case DownloadSucceeded:
		s.Downloading = false
		s.DownloadPhase = DownloadComplete
		s.Progress = 1
		s.DownloadedFilePath = e.Path
		s.DeleteAvailable = true
		s.LastSuccessMessage = e.Message
		s.LastError = ""

	case DownloadErrored:
		s.Downloading = false
		s.DownloadPhase = DownloadFailed
		s.LastError = e.Message
		s.LastSuccessMessage = ""

	case InstallErrored:
		s.LastError = e.Message
		s.LastSuccessMessage = ""

	case FilesDeleted:
		s.LastError = ""
		s.LastSuccessMessage = ""
		if e.Count > 0 {
			s.DeleteAvailable = false
			s.DownloadedFilePath = ""
		}

	case DeleteErrored:
		s.LastError = e.Message
		s.LastSuccessMessage = ""
	}
	return s
}

package game

// GameError is a custom error type for game-related errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrMissingIdentity   GameError = "player name and number are required"
	ErrInvalidTeam       GameError = "unknown team"
	ErrDuplicateIdentity GameError = "player name and number already exist for this team"
	ErrDuplicateName     GameError = "player name already exists for this team"
	ErrDuplicateNumber   GameError = "player number already exists for this team"
	ErrPlayerNotFound    GameError = "player not found"
	ErrPresetNotFound    GameError = "preset player not found"
	ErrInvalidImport     GameError = "import document has no game state"
	ErrNilConfig         GameError = "config cannot be nil"
	ErrNilGameRepo       GameError = "game repository cannot be nil"
	ErrNilDetailRepo     GameError = "detail repository cannot be nil"
)

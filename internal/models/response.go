package models

// ErrorResponse is the JSON error envelope for HTTP endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RoomResponse struct {
	Room ResolvedRoom `json:"room"`
}

type RoomsResponse struct {
	Total int            `json:"total"`
	Rooms []ResolvedRoom `json:"rooms"`
}

type NoteResponse struct {
	Note ResolvedNote `json:"note"`
}

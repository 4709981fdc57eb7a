package models

// Stages is the fixed laundry processing pipeline, in order
var Stages = []string{
	"Diterima",
	"Dicuci",
	"Pengeringan",
	"Disetrika",
	"Siap Diambil/Antar",
	"Selesai",
}

// History notes written by the order lifecycle
const (
	NoteCreated  = "Order dibuat"
	NoteAdvanced = "Maju"
	NoteReverted = "Mundur"
)

// LastStageIndex is the index of the final pipeline stage
func LastStageIndex() int {
	return len(Stages) - 1
}

// ClampStage keeps a stage index within pipeline bounds
func ClampStage(i int) int {
	if i < 0 {
		return 0
	}
	if i > LastStageIndex() {
		return LastStageIndex()
	}
	return i
}

// StageName returns the stage name for an index, clamped to the pipeline
func StageName(i int) string {
	return Stages[ClampStage(i)]
}

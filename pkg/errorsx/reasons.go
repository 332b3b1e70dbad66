package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	ReasonLLMGenerate  ReasonCode = "llm_generate"
	ReasonLLMRateLimit ReasonCode = "llm_rate_limit"
	ReasonNoteExtract  ReasonCode = "note_extract"
	ReasonNoteRejected ReasonCode = "note_rejected"

	ReasonMemoryFetch  ReasonCode = "memory_fetch"
	ReasonMemoryAppend ReasonCode = "memory_append"
	ReasonMemoryErase  ReasonCode = "memory_erase"

	ReasonTTSSynthesize  ReasonCode = "tts_synthesize"
	ReasonTTSRateLimit   ReasonCode = "tts_rate_limit"
	ReasonTTSUnavailable ReasonCode = "tts_unavailable"

	// Quota rejections stay visible past the core so the caller can react.
	ReasonGuestLimitReached  ReasonCode = "guest_limit_reached"
	ReasonSignedLimitReached ReasonCode = "signed_limit_reached"
)

package recognizer

// BuildTranscriptionPrompt returns the prompt for transcribing a scanned
// lab report into plain text.
func BuildTranscriptionPrompt() string {
	return `You are an optical text recognition assistant. Transcribe ALL visible text from the provided medical lab report exactly as it appears.

IMPORTANT INSTRUCTIONS:
- Preserve the reading order of the document. Keep each test result on its own line.
- Do not correct, interpret, summarize, or omit anything. Transcribe faithfully, including reference ranges, units, and flags like (Low) or (High).
- If part of the document is illegible, skip it rather than guessing.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation — just the raw JSON object:

{"text": "<the full transcription>", "confidence": <your overall transcription confidence as a float between 0.0 and 1.0>}`
}

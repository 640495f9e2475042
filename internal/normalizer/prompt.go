package normalizer

// BuildNormalizationPrompt returns the extraction prompt that maps raw lab
// report text to the fixed test schema. A single worked example anchors the
// output format.
func BuildNormalizationPrompt(rawText string) string {
	return `You are a medical lab report structuring assistant. Convert the raw lab report text below into structured JSON.

IMPORTANT INSTRUCTIONS:
- Extract EVERY test result that appears in the text, in the order it appears. Do not skip, merge, or invent any test.
- "name" is the test label exactly as written in the report. Do not rename or canonicalize it.
- "value" is a JSON number when the result is numeric, otherwise a JSON string (e.g. "positive").
- "unit" is the unit as written, or "" when none is given.
- "status" is one of "low", "high", "normal", judged against the reference range when one is printed.
- "ref_range" is {"low": <number>, "high": <number>} when the report prints a reference interval; omit it otherwise.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation — just the raw JSON object with two top-level keys: "tests" and "confidence".

"confidence" is a single float between 0.0 and 1.0 expressing how reliably the text mapped onto the schema.

EXAMPLE INPUT:
Hemoglobin 10.2 g/dL (Low) Ref: 12.0 - 15.0
WBC Count 9800 /cumm Ref: 4000 - 11000
Urine Culture: positive

EXAMPLE OUTPUT:
{"tests":[{"name":"Hemoglobin","value":10.2,"unit":"g/dL","status":"low","ref_range":{"low":12.0,"high":15.0}},{"name":"WBC Count","value":9800,"unit":"/cumm","status":"normal","ref_range":{"low":4000,"high":11000}},{"name":"Urine Culture","value":"positive","unit":"","status":"normal"}],"confidence":0.95}

RAW REPORT TEXT:
` + rawText
}

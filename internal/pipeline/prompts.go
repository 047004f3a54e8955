package pipeline

import (
	"fmt"
	"os"
)

// buildSlipPrompt assembles the extraction instructions sent to the model
// together with the slip image. The model is asked for raw JSON matching the
// SlipRecord schema; everything it returns is still re-validated in
// transform.go, so these instructions are best-effort, not a contract.
func buildSlipPrompt() string {
	basePrompt :=
		"You are an expert OCR data extraction system for financial documents.\n" +
			"Your task is to meticulously analyze the provided image of a Thai money transfer slip and extract key information.\n\n" +
			"STRICTLY USE THE PROVIDED IMAGE ONLY. Do not use external knowledge or training data examples.\n" +
			"Do not invent or guess information that is not written on the slip; if a value is blurry, ambiguous,\n" +
			"or missing, use null for that field. If the image is clearly not a money transfer slip, return a JSON\n" +
			"object where every value is null.\n\n" +
			"Return the data ONLY as a valid, raw JSON object. Do not include any explanatory text,\n" +
			"markdown formatting like ```json, or anything outside of the JSON structure itself.\n\n" +
			"The required JSON schema is:\n" +
			"{\n" +
			"  \"transaction_datetime\": \"The transaction date and time in YYYY-MM-DD HH:MM format\",\n" +
			"  \"bank\": \"The name of the sender's bank (e.g., K-Bank, SCB, Krungthai, TTB)\",\n" +
			"  \"from_account\": \"The sender's name or account number\",\n" +
			"  \"recipient\": \"The full name of the recipient\",\n" +
			"  \"amount\": 0.00,\n" +
			"  \"memo\": \"The transaction memo, note, or reference number\"\n" +
			"}\n\n"

	rulesPrompt :=
		"Rules:\n" +
			"- The \"amount\" field MUST be a numeric type (float or integer), never a string.\n" +
			"- Convert Thai Buddhist years (e.g., 2568, 68) to the corresponding Gregorian year (e.g., 2025).\n" +
			"  The final \"transaction_datetime\" must be in YYYY-MM-DD HH:MM format.\n" +
			"- If any piece of information cannot be found, use null as the value. Do not omit the key.\n" +
			"- For \"recipient\", extract the full name only, excluding bank account numbers and \"PromptPay\" labels.\n" +
			"- Identify the bank from its logo or text cues (e.g., K+, Krungthai, SCB EASY).\n" +
			"- Combine date and time into the single \"transaction_datetime\" field.\n"

	return basePrompt + rulesPrompt
}

// LoadPrompt returns the extraction prompt, preferring the file at path when
// one is configured. The built-in prompt is the fallback so the service can
// run without any prompt file deployed.
func LoadPrompt(path string) (string, error) {
	if path == "" {
		return buildSlipPrompt(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("LoadPrompt: reading %q: %w", path, err)
	}
	return string(data), nil
}

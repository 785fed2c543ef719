package constant

import "fmt"

const (
	MessageSenderUser = "user"
	MessageSenderAi   = "ai"

	DefaultLanguage = "en"
	DefaultCountry  = "US"

	// Display name of last resort when the verifier supplies no usable metadata.
	FallbackDisplayName = "Friend"
)

// languageInstructions tells the tutor which language to answer in.
var languageInstructions = map[string]string{
	"en": "Respond in English",
	"hi": "हिंदी में जवाब दें",
	"mr": "मराठी मध्ये प्रतिसाद द्या",
	"gu": "ગુજરાતી માં જવાબ આપો",
	"ta": "தமிழில் பதிலளிக்கவும்",
}

// voiceMap fixes one synthesizer voice per language. The voice becomes part of
// the session contract at creation; it is never swapped afterwards.
var voiceMap = map[string]string{
	"en": "bn-IN-BashkarNeural",
	"hi": "hi-IN-SwaraNeural",
	"mr": "mr-IN-AarohiNeural",
	"gu": "gu-IN-DhwaniNeural",
	"ta": "ta-IN-PallaviNeural",
}

var greetings = map[string]string{
	"en": "Hello there! I'm David, your magical voice tutor! Ask me anything - what would you like to learn today?",
	"hi": "नमस्ते! मैं डेविड हूं, आपका जादुई आवाज ट्यूटर! मुझसे कुछ भी पूछें - आप आज क्या सीखना चाहते हैं?",
	"mr": "नमस्कार! मी डेविड आहे, तुमचा जादुई आवाज शिक्षक! मला काहीही विचारा - तुम्हाला आज काय शिकायचे आहे?",
	"gu": "નમસ્તે! હું ડેવિડ છું, તમારો જાદુઈ અવાજ શિક્ષક! મને કંઈપણ પૂછો - તમે આજે શું શીખવા માંગો છો?",
	"ta": "வணக்கம்! நான் டேவிட், உங்கள் மந்திர குரல் ஆசிரியர்! என்னிடம் எதையும் கேள்வி கேளுங்கள் - நீங்கள் இன்று என்ன கற்க விரும்புகிறீர்கள்?",
}

// DidNotHearYou is the benign reply for silent or empty input. Nothing is
// persisted when it is used.
var DidNotHearYou = map[string]string{
	"en": "I didn't quite hear you. Could you try saying that again?",
	"hi": "मैं आपको ठीक से सुन नहीं पाया। क्या आप फिर से कोशिश कर सकते हैं?",
	"mr": "मला तुमचे बोलणे नीट ऐकू आले नाही. पुन्हा प्रयत्न कराल का?",
	"gu": "હું તમને બરાબર સાંભળી શક્યો નહીં. ફરી પ્રયત્ન કરશો?",
	"ta": "நான் உங்களை சரியாகக் கேட்கவில்லை. மீண்டும் சொல்ல முயற்சிக்கிறீர்களா?",
}

// VoiceForLanguage returns the fixed voice id for a language, defaulting to the
// English tutor voice.
func VoiceForLanguage(language string) string {
	if v, ok := voiceMap[language]; ok {
		return v
	}
	return voiceMap[DefaultLanguage]
}

// GreetingForLanguage returns the session-start greeting. Greetings are spoken
// by the client but never written to the transcript.
func GreetingForLanguage(language string) string {
	if g, ok := greetings[language]; ok {
		return g
	}
	return greetings[DefaultLanguage]
}

// EmptyInputReply returns the localized "didn't hear you" line.
func EmptyInputReply(language string) string {
	if r, ok := DidNotHearYou[language]; ok {
		return r
	}
	return DidNotHearYou[DefaultLanguage]
}

// RenderPersona builds the full system prompt for a session, exactly once at
// session creation. Turns read the persisted text verbatim; re-rendering from
// raw inputs mid-session would risk persona drift.
func RenderPersona(sessionType, language, scenarioContext string) string {
	instruction, ok := languageInstructions[language]
	if !ok {
		instruction = languageInstructions[DefaultLanguage]
	}

	if sessionType == "roleplay" && scenarioContext != "" {
		return fmt.Sprintf(
			"You are David, a friendly and magical AI voice tutor for children aged 5-10. "+
				"%s. You are in a roleplay scenario: %s. "+
				"Keep responses very brief (1-2 sentences). Be encouraging and stay in character. "+
				"Guide the child through the conversation naturally. "+
				"Include emojis occasionally to make your responses engaging.",
			instruction, scenarioContext)
	}

	return fmt.Sprintf(
		"You are David, a friendly and magical AI voice tutor for children aged 5-10. "+
			"%s. Use simple language appropriate for young children. "+
			"Be encouraging, positive, and educational. Keep responses brief (1-3 sentences). "+
			"Include emojis occasionally to make your responses engaging. "+
			"Focus on being helpful and making learning fun.",
		instruction)
}

package chat

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"agrifin-backend/internal/chatbot"
	domain "agrifin-backend/internal/domain/chat"
	"agrifin-backend/internal/logging"
	"agrifin-backend/internal/metrics"
)

const EmptyMessageReply = "Please send a message."

// Fallback replies by language code, used while the model is unavailable.
var Fallback = map[string]string{
	"en": "Thank you for your message. The chatbot model is not available right now. " +
		"To apply for a loan, use the Loan Eligibility and Loan Amount Recommendation tools. " +
		"We support Kinyarwanda, English, and French.",
	"fr": "Merci pour votre message. Le modèle du chatbot n'est pas disponible. " +
		"Pour demander un prêt, utilisez les outils d'éligibilité et de recommandation ci-dessus.",
	"rw": "Murakoze kubutumwa. Modèle y'ikibazo ntabwo iri. " +
		"Kugira ngo usabe inguzanyo, koresha ibikoresho by'emera no gutoranya inguzanyo hejuru.",
}

// FallbackReply returns the reply for language, English when unknown.
func FallbackReply(language string) string {
	if r, ok := Fallback[strings.ToLower(strings.TrimSpace(language))]; ok {
		return r
	}
	return Fallback["en"]
}

// LanguageLabel bounds the metric label to the supported languages.
func LanguageLabel(language string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		return "en"
	}
	if _, ok := Fallback[lang]; ok {
		return lang
	}
	return "other"
}

type Input struct {
	Message  string
	Language string
}

type ReplyDTO struct {
	Reply    string `json:"reply"`
	Response string `json:"response"`
	Fallback bool   `json:"-"`
}

type Usecase struct {
	bot  chatbot.Bot
	repo domain.Repository
	log  *zap.Logger
}

func NewUsecase(bot chatbot.Bot, repo domain.Repository, log *zap.Logger) *Usecase {
	if bot == nil {
		bot = chatbot.Unavailable{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{bot: bot, repo: repo, log: log}
}

// Reply never fails: model errors turn into the localized fallback. The
// exchange is recorded for signed-in callers (userID != 0).
func (u *Usecase) Reply(ctx context.Context, userID uint64, in Input) *ReplyDTO {
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return &ReplyDTO{Reply: EmptyMessageReply, Response: EmptyMessageReply}
	}
	lang := strings.ToLower(strings.TrimSpace(in.Language))
	if lang == "" {
		lang = "en"
	}
	log := logging.FromContext(ctx, u.log)

	out := &ReplyDTO{}
	reply, err := u.bot.Reply(ctx, msg)
	if err != nil {
		log.Warn("chatbot unavailable, using fallback", zap.String("language", lang), zap.Error(err))
		reply = FallbackReply(lang)
		out.Fallback = true
	}
	out.Reply, out.Response = reply, reply

	source := "model"
	if out.Fallback {
		source = "fallback"
	}
	metrics.ChatReplies.WithLabelValues(LanguageLabel(lang), source).Inc()

	if userID != 0 && u.repo != nil {
		rec := &domain.Interaction{UserID: userID, Message: msg, Reply: reply, Language: lang, Fallback: out.Fallback}
		if err := u.repo.Create(ctx, rec); err != nil {
			log.Warn("chat interaction not recorded", zap.Uint64("user_id", userID), zap.Error(err))
		}
	}
	return out
}

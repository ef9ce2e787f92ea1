package constant

// Replies sent to chats. The audience is Uzbek speaking.
const (
	MsgOperatorWelcome   = "➕ Add video tugmasini bosib, video yuboring. O'chirish uchun 🗑 Delete video yoki /del 25.11.2022."
	MsgOperatorHint      = "Video qo'shish uchun ➕ Add video tugmasini bosing."
	MsgSendOneVideo      = "Bitta video yuboring."
	MsgSendVideoFile     = "Iltimos, video fayl yuboring."
	MsgRelayFailed       = "❌ Videoni kanalga yuborishda xatolik: %v"
	MsgVideoRelayed      = "Video kanalga yuborildi. Videoning ID sini yuboring (masalan, 25.11.2022 yoki 25.11.2022.1)."
	MsgVideoMissing      = "❌ Video topilmadi. Avval video yuboring."
	MsgVideoSaved        = "✅ Video saqlandi. ID: %s"
	MsgInvalidIdentifier = "❌ Video ID formati noto'g'ri. 25.11.2022 yoki 25.11.2022.1 ko'rinishida yuboring."
	MsgSendIdentifier    = "Iltimos, to'g'ri video ID yuboring (masalan, 25.11.2022 yoki 25.11.2022.1)."
	MsgSendDeleteID      = "🗑 O'chiriladigan videolarning ID sini yuboring (masalan, 25.11.2022)."
	MsgVideosDeleted     = "🗑 ID: %s\nBazadan o'chirildi: %d\nKanaldan o'chirildi: %d\nKanaldan o'chirib bo'lmadi: %d"
	MsgCancelled         = "Bekor qilindi."
	MsgInternalError     = "❌ Xatolik yuz berdi. Keyinroq urinib ko'ring."

	MsgRequesterWelcome = "To'y sanasini kiriting (masalan, 25.11.2022) "
	MsgVideosNotFound   = "❌ Bu sana bo'yicha videolar topilmadi"
	MsgVideoUnavailable = "❌ Bu sana bo'yicha videolar topilmadi. Studiomizga murojaat qiling."
)

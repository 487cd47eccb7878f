package notify

import (
	"fmt"
	"strings"

	"zalo-hr-gateway/internal/models"
)

// WelcomeMessage greets a new follower of the OA.
func WelcomeMessage() string {
	return `Chào mừng bạn đến với Auto Project Manager! 🎉

Để đăng ký làm nhân viên, hãy gửi tin nhắn: "Đăng ký"

Chúng tôi sẽ hướng dẫn bạn các bước tiếp theo.`
}

// RegistrationInstructions tells a candidate how to submit a CV.
func RegistrationInstructions() string {
	return `Chào bạn! 👋

Để đăng ký làm nhân viên, vui lòng gửi CV của bạn dưới dạng file PDF.

📄 Yêu cầu:
- File định dạng PDF
- Bao gồm thông tin: Họ tên, Email, Số điện thoại, Kỹ năng

Hệ thống sẽ tự động xử lý và thông báo kết quả cho bạn.`
}

// PendingReview confirms receipt of a CV to the candidate.
func PendingReview(name string) string {
	return fmt.Sprintf(`📄 Đã nhận CV của bạn, %s!

Hồ sơ của bạn đang chờ HR xét duyệt. Chúng tôi sẽ thông báo kết quả cho bạn sớm nhất.`, name)
}

// HRReviewRequest asks HR to decide a registration. The APPROVE/DECLINE
// lines are the control protocol; the registration id must appear verbatim.
func HRReviewRequest(reg models.PendingRegistration) string {
	p := reg.Profile
	var b strings.Builder
	b.WriteString("🆕 Đăng ký nhân viên mới!\n\n")
	fmt.Fprintf(&b, "👤 Tên: %s\n", p.Name)
	fmt.Fprintf(&b, "📧 Email: %s\n", p.Email)
	fmt.Fprintf(&b, "📱 SĐT: %s\n", p.Phone)
	fmt.Fprintf(&b, "💼 Vị trí: %s\n", p.Role)
	fmt.Fprintf(&b, "⏳ Kinh nghiệm: %d năm (%s)\n", p.ExperienceYears, p.ExperienceLevel)
	fmt.Fprintf(&b, "🛠 Kỹ năng: %s\n", strings.Join(p.Skills, ", "))
	if len(p.Strengths) > 0 {
		fmt.Fprintf(&b, "💪 Điểm mạnh: %s\n", strings.Join(p.Strengths, ", "))
	}
	fmt.Fprintf(&b, "\nRegistration ID: %s\n\n", reg.RegistrationID)
	fmt.Fprintf(&b, "Trả lời APPROVE %s để duyệt\n", reg.RegistrationID)
	fmt.Fprintf(&b, "Trả lời DECLINE %s để từ chối", reg.RegistrationID)
	return b.String()
}

// ApprovalNotice tells the candidate their account was created.
func ApprovalNotice(record models.UserRecord) string {
	return fmt.Sprintf(`✅ Đăng ký thành công!

Thông tin của bạn đã được lưu vào hệ thống:
👤 Tên: %s
📧 Email: %s
🆔 ID: %s

HR sẽ liên hệ với bạn sớm nhất. Cảm ơn bạn đã đăng ký!`, record.Name, record.Email, record.ID)
}

// HRApproveConfirmation confirms account creation to HR.
func HRApproveConfirmation(record models.UserRecord) string {
	return fmt.Sprintf("✅ Đã tạo tài khoản cho %s\n📱 SĐT: %s\n🆔 User ID: %s", record.Name, record.Phone, record.ID)
}

// DeclineNotice tells the candidate their registration was declined.
func DeclineNotice(name string) string {
	return fmt.Sprintf(`Chào %s,

Rất tiếc, hồ sơ của bạn chưa phù hợp ở thời điểm hiện tại. Cảm ơn bạn đã quan tâm và hẹn gặp lại trong các đợt tuyển dụng sau.`, name)
}

// HRDeclineConfirmation confirms the decline to HR.
func HRDeclineConfirmation(name string) string {
	return fmt.Sprintf("✅ Đã từ chối đơn của %s", name)
}

// HRNotFound reports an unknown registration id to HR.
func HRNotFound(registrationID string) string {
	return fmt.Sprintf("❌ Registration ID không tồn tại: %s", registrationID)
}

// HRCreateFailed reports a recoverable account-creation failure to HR; the
// registration is retained so the decision can be corrected and resent.
func HRCreateFailed(registrationID, detail string) string {
	return fmt.Sprintf("❌ Lỗi tạo tài khoản: %s\n\nĐơn %s vẫn đang chờ, sửa thông tin rồi gửi lại APPROVE %s.", detail, registrationID, registrationID)
}

// HRExpiredRegistration informs HR that a stale registration was dropped.
func HRExpiredRegistration(reg models.PendingRegistration) string {
	return fmt.Sprintf("⏰ Đơn đăng ký của %s (ID %s) đã quá hạn chờ duyệt và bị gỡ khỏi hàng đợi.", reg.Profile.Name, reg.RegistrationID)
}

// UnsupportedImage rejects image uploads.
func UnsupportedImage() string {
	return "Xin lỗi, hệ thống chưa hỗ trợ xử lý hình ảnh. Vui lòng gửi tài liệu dưới dạng file PDF."
}

// UnsupportedDocument rejects a CV in a non-document format.
func UnsupportedDocument(filename string) string {
	return fmt.Sprintf("File %s không đúng định dạng. Vui lòng gửi CV dưới dạng file PDF hoặc DOCX.", filename)
}

// UnrecognizedFile tells a sender their upload matched no authorized
// document type for their role.
func UnrecognizedFile(filename string) string {
	return fmt.Sprintf("Xin lỗi, hệ thống không nhận diện được file %s cho tài khoản của bạn nên chưa xử lý.", filename)
}

// WBSAccepted acknowledges a processed project plan to the manager.
func WBSAccepted(filename, summary string) string {
	if summary == "" {
		return fmt.Sprintf("✅ Đã nhận kế hoạch %s và chuyển cho hệ thống tạo công việc.", filename)
	}
	return fmt.Sprintf("✅ Đã nhận kế hoạch %s.\n\n%s", filename, summary)
}

// Apology is the generic failure reply when processing breaks mid-way.
func Apology() string {
	return "Xin lỗi, hệ thống gặp sự cố khi xử lý yêu cầu của bạn. Vui lòng thử lại sau."
}

// SystemBusy is the canned reply when the chatbot agent times out.
func SystemBusy() string {
	return "Xin lỗi, hệ thống đang bận. Vui lòng thử lại sau."
}

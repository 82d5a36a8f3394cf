package models

// ===========================================================================
// Models Index
// Cung cấp danh sách tất cả models cho GORM AutoMigrate
// ===========================================================================

// AllModels trả về danh sách tất cả models
// Dùng cho database.AutoMigrate() để tự động tạo/update tables
func AllModels() []interface{} {
	return []interface{}{
		&Player{},       // Vận động viên
		&Staff{},        // Ban huấn luyện
		&Tag{},          // Nhãn
		&PlayerTag{},    // Liên kết player-tag
		&User{},         // Tài khoản
		&Event{},        // Lịch
		&MatchDetails{}, // Thông tin trận
		&Note{},         // Ghi chú
		&NoteShare{},    // Share note cho player
		&Announcement{}, // Thông báo
		&Form{},         // Form
		&FormQuestion{}, // Câu hỏi
		&FormResponse{}, // Câu trả lời
		&Trip{},         // Chuyến đi
		&TripRoster{},   // Roster chuyến đi
	}
}

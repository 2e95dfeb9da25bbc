package services

import (
	"errors"
	"fmt"

	"github.com/hosteldesk/hostel-api/model"
	"gorm.io/gorm"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrBedTaken     = errors.New("bed is already occupied")
)

// RoomFullError reports a capacity rejection with the remaining bed count
type RoomFullError struct {
	RoomNumber    string
	AvailableBeds int
}

func (e *RoomFullError) Error() string {
	return fmt.Sprintf("room %s is full (%d beds available)", e.RoomNumber, e.AvailableBeds)
}

// OccupancyResult describes how full a room currently is
type OccupancyResult struct {
	Room           model.Room `json:"room"`
	ActiveStudents int64      `json:"active_students"`
	ActiveStaff    int64      `json:"active_staff"`
	TotalOccupants int64      `json:"total_occupants"`
	AvailableBeds  int        `json:"available_beds"`
}

// OccupancyService answers room capacity and bed conflict questions
type OccupancyService struct {
	db *gorm.DB
}

// NewOccupancyService creates a new occupancy service
func NewOccupancyService(db *gorm.DB) *OccupancyService {
	return &OccupancyService{db: db}
}

// CheckRoom looks up a room and computes its occupancy. Category narrows the
// room lookup when given; staff placements pass an empty category because a
// staff record carries none. Occupants of both kinds count against capacity.
func (s *OccupancyService) CheckRoom(roomNumber, gender, category string) (*OccupancyResult, error) {
	var room model.Room

	query := s.db.Where("room_number = ? AND gender = ?", roomNumber, gender)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to look up room: %w", err)
	}

	var activeStudents int64
	if err := s.db.Model(&model.Student{}).
		Where("room_number = ? AND gender = ? AND is_active = ?", roomNumber, gender, true).
		Count(&activeStudents).Error; err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}

	var activeStaff int64
	if err := s.db.Model(&model.StaffGuest{}).
		Where("room_number = ? AND gender = ? AND is_active = ?", roomNumber, gender, true).
		Count(&activeStaff).Error; err != nil {
		return nil, fmt.Errorf("failed to count staff: %w", err)
	}

	total := activeStudents + activeStaff
	available := room.BedCount - int(total)
	if available < 0 {
		available = 0
	}

	return &OccupancyResult{
		Room:           room,
		ActiveStudents: activeStudents,
		ActiveStaff:    activeStaff,
		TotalOccupants: total,
		AvailableBeds:  available,
	}, nil
}

// EnsureRoomHasSpace checks the room exists and has at least one free bed.
// Returns ErrRoomNotFound or a RoomFullError on rejection.
func (s *OccupancyService) EnsureRoomHasSpace(roomNumber, gender, category string) (*OccupancyResult, error) {
	result, err := s.CheckRoom(roomNumber, gender, category)
	if err != nil {
		return nil, err
	}

	if result.AvailableBeds <= 0 {
		return result, &RoomFullError{RoomNumber: roomNumber, AvailableBeds: result.AvailableBeds}
	}

	return result, nil
}

// OccupantRef identifies the record being edited so a bed check does not
// collide with itself. Zero value means a brand new occupant.
type OccupantRef struct {
	StudentID uint
	StaffID   uint
}

// CheckBed rejects a (room, bed) pair already held by another active
// occupant. The record under edit is excluded from the conflict scan.
func (s *OccupancyService) CheckBed(roomNumber, bedNumber string, exclude OccupantRef) error {
	if bedNumber == "" {
		return nil
	}

	var studentCount int64
	studentQuery := s.db.Model(&model.Student{}).
		Where("room_number = ? AND bed_number = ? AND is_active = ?", roomNumber, bedNumber, true)
	if exclude.StudentID != 0 {
		studentQuery = studentQuery.Where("id <> ?", exclude.StudentID)
	}
	if err := studentQuery.Count(&studentCount).Error; err != nil {
		return fmt.Errorf("failed to check bed occupancy: %w", err)
	}
	if studentCount > 0 {
		return ErrBedTaken
	}

	var staffCount int64
	staffQuery := s.db.Model(&model.StaffGuest{}).
		Where("room_number = ? AND bed_number = ? AND is_active = ?", roomNumber, bedNumber, true)
	if exclude.StaffID != 0 {
		staffQuery = staffQuery.Where("id <> ?", exclude.StaffID)
	}
	if err := staffQuery.Count(&staffCount).Error; err != nil {
		return fmt.Errorf("failed to check bed occupancy: %w", err)
	}
	if staffCount > 0 {
		return ErrBedTaken
	}

	return nil
}

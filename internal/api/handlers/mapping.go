package handlers

import (
	"hos-trip-service/internal/api/dto"
	"hos-trip-service/internal/domain"
)

func toCoordinates(c domain.Coordinate) dto.Coordinates {
	return dto.Coordinates{Lat: c.Lat, Lng: c.Lng}
}

func toStopResponse(s domain.Stop) dto.StopResponse {
	return dto.StopResponse{
		Order:           s.Ordinal,
		Kind:            string(s.Kind),
		Name:            s.Place.DisplayName,
		Address:         s.Place.Address,
		Coordinates:     toCoordinates(s.Place.Coordinate),
		Arrival:         s.ArrivalTime,
		Departure:       s.DepartureTime,
		DurationMinutes: s.DurationMinutes(),
		Activity:        s.ActivityText,
	}
}

func toDailyLogResponse(l domain.DailyLedger) dto.DailyLogResponse {
	entries := make([]dto.LedgerEntryResponse, 0, len(l.Entries))
	for _, e := range l.Entries {
		entries = append(entries, dto.LedgerEntryResponse{
			Status:   string(e.Status),
			Start:    e.Start,
			End:      e.End,
			Location: e.Location,
			Activity: e.Activity,
		})
	}

	remarks := make([]dto.RemarkResponse, 0, len(l.Remarks))
	for _, r := range l.Remarks {
		remarks = append(remarks, dto.RemarkResponse{
			Time:     r.Time,
			Location: r.Location,
			Activity: r.Activity,
		})
	}

	return dto.DailyLogResponse{
		Day:           l.DayNumber,
		Date:          l.Date.Format("2006-01-02"),
		Timezone:      l.Timezone,
		StartLocation: l.StartLocation,
		EndLocation:   l.EndLocation,
		TotalMiles:    l.TotalMiles,
		Hours: dto.DailyHoursResponse{
			OffDuty:      l.Hours.OffDutyHours,
			SleeperBerth: l.Hours.SleeperHours,
			Driving:      l.Hours.DrivingHours,
			OnDuty:       l.Hours.OnDutyHours,
		},
		Entries: entries,
		Remarks: remarks,
	}
}

func toTripResponse(t domain.Trip) dto.TripResponse {
	stops := make([]dto.StopResponse, 0, len(t.Stops))
	for _, s := range t.Stops {
		stops = append(stops, toStopResponse(s))
	}

	logs := make([]dto.DailyLogResponse, 0, len(t.DailyLedgers))
	for _, l := range t.DailyLedgers {
		logs = append(logs, toDailyLogResponse(l))
	}

	return dto.TripResponse{
		TripID: t.ID.String(),
		Summary: dto.TripSummaryResponse{
			TotalDistanceMiles:  t.Summary.TotalDistanceMiles,
			TotalDrivingHours:   t.Summary.TotalDrivingHours,
			TotalDays:           t.Summary.TotalDays,
			StartTime:           t.Summary.StartTime,
			EndTime:             t.Summary.EndTime,
			CycleHoursUsed:      t.Summary.CycleHoursUsed,
			CycleHoursRemaining: t.Summary.CycleHoursRemaining,
		},
		Route: dto.RouteResponse{
			Polyline: t.Polyline,
			Segments: []dto.SegmentResponse{
				{
					From:          t.StartAddress.DisplayName,
					To:            t.PickupAddress.DisplayName,
					DistanceMiles: t.SegToPickup.DistanceMiles,
					DurationHours: t.SegToPickup.DurationHours,
				},
				{
					From:          t.PickupAddress.DisplayName,
					To:            t.DropoffAddress.DisplayName,
					DistanceMiles: t.SegToDropoff.DistanceMiles,
					DurationHours: t.SegToDropoff.DurationHours,
				},
			},
		},
		Stops:     stops,
		DailyLogs: logs,
	}
}

func toTripListItemResponse(t domain.Trip) dto.TripListItemResponse {
	return dto.TripListItemResponse{
		TripID:          t.ID.String(),
		PickupLocation:  t.PickupAddress.DisplayName,
		DropoffLocation: t.DropoffAddress.DisplayName,
		StartTime:       t.Summary.StartTime,
		EndTime:         t.Summary.EndTime,
		TotalDistance:   t.Summary.TotalDistanceMiles,
		TotalDays:       t.Summary.TotalDays,
		CreatedAt:       t.CreatedAt,
	}
}

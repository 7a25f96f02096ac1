package gtfs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash"
	"time"
)

// Hash writes a fingerprint of the feed's records to the provided hash
// function. Two feeds with identical records hash identically regardless
// of how they were constructed, so the fingerprint can verify that two
// filter pipelines produced the same feed.
//
// Parse warnings are ignored for the purposes of hashing.
func (f *Feed) Hash(h hash.Hash) {
	s := hasher{h: h}
	s.number(int64(len(f.Agencies)))
	for i := range f.Agencies {
		s.agency(&f.Agencies[i])
	}
	s.number(int64(len(f.Routes)))
	for i := range f.Routes {
		s.route(&f.Routes[i])
	}
	s.number(int64(len(f.Stops)))
	for i := range f.Stops {
		s.stop(&f.Stops[i])
	}
	s.number(int64(len(f.Transfers)))
	for i := range f.Transfers {
		s.transfer(&f.Transfers[i])
	}
	s.number(int64(len(f.Services)))
	for i := range f.Services {
		s.service(&f.Services[i])
	}
	s.number(int64(len(f.Trips)))
	for i := range f.Trips {
		s.trip(&f.Trips[i])
	}
	s.number(int64(len(f.Shapes)))
	for i := range f.Shapes {
		s.shape(&f.Shapes[i])
	}
	s.flush()
}

type hasher struct {
	h hash.Hash
	b bytes.Buffer
}

func (h *hasher) flush() {
	h.h.Write(h.b.Bytes())
	h.b.Reset()
}

func (h *hasher) agency(a *Agency) {
	h.string(a.Id)
	h.string(a.Name)
	h.string(a.Url)
	h.string(a.Timezone)
	h.string(a.Language)
	h.string(a.Phone)
	h.string(a.FareUrl)
	h.string(a.Email)
}

func (h *hasher) route(r *Route) {
	h.string(r.Id)
	h.string(r.AgencyID)
	h.string(r.Color)
	h.string(r.TextColor)
	h.string(r.ShortName)
	h.string(r.LongName)
	h.string(r.Description)
	h.number(r.Type)
	h.string(r.Url)
	hashNumberPtr(h, r.SortOrder)
	h.number(r.ContinuousPickup)
	h.number(r.ContinuousDropOff)
}

func (h *hasher) stop(s *Stop) {
	h.string(s.Id)
	h.string(s.Code)
	h.string(s.Name)
	h.string(s.Description)
	h.string(s.ZoneId)
	hashNumberPtr(h, s.Longitude)
	hashNumberPtr(h, s.Latitude)
	h.string(s.Url)
	h.number(s.Type)
	h.string(s.ParentID)
	h.string(s.Timezone)
	h.number(s.WheelchairBoarding)
	h.string(s.PlatformCode)
}

func (h *hasher) transfer(t *Transfer) {
	h.string(t.FromStopID)
	h.string(t.ToStopID)
	h.number(t.Type)
	hashNumberPtr(h, t.MinTransferTime)
}

func (h *hasher) service(s *Service) {
	h.string(s.Id)
	for _, day := range []bool{s.Monday, s.Tuesday, s.Wednesday, s.Thursday, s.Friday, s.Saturday, s.Sunday} {
		h.number(day)
	}
	h.time(s.StartDate)
	h.time(s.EndDate)
	h.number(int64(len(s.AddedDates)))
	for _, d := range s.AddedDates {
		h.time(d)
	}
	h.number(int64(len(s.RemovedDates)))
	for _, d := range s.RemovedDates {
		h.time(d)
	}
}

func (h *hasher) trip(t *ScheduledTrip) {
	h.string(t.ID)
	h.string(t.RouteID)
	h.string(t.ServiceID)
	h.string(t.ShapeID)
	h.string(t.Headsign)
	h.string(t.ShortName)
	h.number(t.DirectionId)
	h.string(t.BlockID)
	h.number(t.WheelchairAccessible)
	h.number(t.BikesAllowed)
	h.number(int64(len(t.StopTimes)))
	for i := range t.StopTimes {
		st := &t.StopTimes[i]
		h.string(st.StopID)
		h.string(st.Headsign)
		h.number(int64(st.StopSequence))
		h.number(st.ArrivalTime)
		h.number(st.DepartureTime)
		h.number(st.PickupType)
		h.number(st.DropOffType)
		h.number(st.ContinuousPickup)
		h.number(st.ContinuousDropOff)
		hashNumberPtr(h, st.ShapeDistanceTraveled)
		h.number(st.ExactTimes)
	}
	h.number(int64(len(t.Frequencies)))
	for _, f := range t.Frequencies {
		h.number(f.StartTime)
		h.number(f.EndTime)
		h.number(f.Headway)
		h.number(f.ExactTimes)
	}
}

func (h *hasher) shape(s *Shape) {
	h.string(s.ID)
	h.number(int64(len(s.Points)))
	for _, p := range s.Points {
		h.number(p.Latitude)
		h.number(p.Longitude)
		hashNumberPtr(h, p.Distance)
	}
}

func (h *hasher) string(s string) {
	h.number(uint64(len(s)))
	h.flush()
	h.h.Write([]byte(s))
}

func hashNumberPtr[T any](h *hasher, a *T) {
	h.number(a == nil)
	if a != nil {
		h.number(*a)
	}
}

func (h *hasher) number(a any) {
	err := binary.Write(&h.b, binary.LittleEndian, a)
	if err != nil {
		panic(fmt.Sprintf("failed to hash %T", a))
	}
}

func (h *hasher) time(t time.Time) {
	h.number(t.Unix())
}

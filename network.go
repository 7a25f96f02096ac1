package gtfs

import (
	"sort"
	"time"
)

// NetworkGraph is a directed graph derived from a feed: nodes are the stops
// visited by at least one trip and edges are consecutive stop-time pairs.
//
// The graph is built fresh per call and never stored on the feed; it is
// owned by the caller and discarded after use.
type NetworkGraph struct {
	nodes map[string]*Stop
	edges map[[2]string]*NetworkEdge
	// adjacency ignores edge direction; it backs the component search.
	adjacency map[string][]string
}

// NetworkEdge is a directed connection between two stops. Trips reusing the
// same stop pair reinforce the edge rather than duplicating it.
type NetworkEdge struct {
	From *Stop
	To   *Stop
	// Multiplicity is the number of trip segments using this edge.
	Multiplicity int
	// TotalTransitTime is the sum of the scheduled transit times of all
	// segments using this edge, where both times were specified.
	TotalTransitTime time.Duration
}

// MeanTransitTime returns the average scheduled transit time over the edge.
func (e *NetworkEdge) MeanTransitTime() time.Duration {
	if e.Multiplicity == 0 {
		return 0
	}
	return e.TotalTransitTime / time.Duration(e.Multiplicity)
}

// BuildNetwork derives the network graph of the feed. Stop times with
// unresolved stops are skipped; Validate reports them separately.
func BuildNetwork(feed *Feed) *NetworkGraph {
	g := &NetworkGraph{
		nodes:     map[string]*Stop{},
		edges:     map[[2]string]*NetworkEdge{},
		adjacency: map[string][]string{},
	}
	for i := range feed.Trips {
		trip := &feed.Trips[i]
		stopTimes := sortedStopTimes(trip)
		var previous *ScheduledStopTime
		for _, stopTime := range stopTimes {
			if stopTime.Stop == nil {
				continue
			}
			g.addNode(stopTime.Stop)
			if previous != nil {
				g.addSegment(previous, stopTime)
			}
			previous = stopTime
		}
	}
	return g
}

// sortedStopTimes returns the trip's stop times in stop_sequence order
// without reordering the feed itself.
func sortedStopTimes(trip *ScheduledTrip) []*ScheduledStopTime {
	stopTimes := make([]*ScheduledStopTime, len(trip.StopTimes))
	for i := range trip.StopTimes {
		stopTimes[i] = &trip.StopTimes[i]
	}
	sort.SliceStable(stopTimes, func(i, j int) bool {
		return stopTimes[i].StopSequence < stopTimes[j].StopSequence
	})
	return stopTimes
}

func (g *NetworkGraph) addNode(stop *Stop) {
	if _, ok := g.nodes[stop.Id]; !ok {
		g.nodes[stop.Id] = stop
	}
}

func (g *NetworkGraph) addSegment(from, to *ScheduledStopTime) {
	key := [2]string{from.Stop.Id, to.Stop.Id}
	edge, ok := g.edges[key]
	if !ok {
		edge = &NetworkEdge{From: from.Stop, To: to.Stop}
		g.edges[key] = edge
		g.adjacency[from.Stop.Id] = append(g.adjacency[from.Stop.Id], to.Stop.Id)
		g.adjacency[to.Stop.Id] = append(g.adjacency[to.Stop.Id], from.Stop.Id)
	}
	edge.Multiplicity++
	if from.DepartureTime >= 0 && to.ArrivalTime >= 0 && to.ArrivalTime >= from.DepartureTime {
		edge.TotalTransitTime += to.ArrivalTime - from.DepartureTime
	}
}

// NumNodes returns the number of distinct stops in the graph.
func (g *NetworkGraph) NumNodes() int {
	return len(g.nodes)
}

// NumEdges returns the number of distinct directed edges in the graph.
func (g *NetworkGraph) NumEdges() int {
	return len(g.edges)
}

// Edge returns the directed edge between two stops, if present.
func (g *NetworkGraph) Edge(fromStopID, toStopID string) (*NetworkEdge, bool) {
	edge, ok := g.edges[[2]string{fromStopID, toStopID}]
	return edge, ok
}

// ComponentSizes returns the sizes of the weakly connected components of
// the graph, largest first.
func (g *NetworkGraph) ComponentSizes() []int {
	visited := map[string]bool{}
	var sizes []int
	for id := range g.nodes {
		if visited[id] {
			continue
		}
		size := 0
		stack := []string{id}
		visited[id] = true
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			size++
			for _, neighbor := range g.adjacency[current] {
				if !visited[neighbor] {
					visited[neighbor] = true
					stack = append(stack, neighbor)
				}
			}
		}
		sizes = append(sizes, size)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	return sizes
}

// AssertConnected returns a *DisconnectedNetworkError when the graph has
// more than one weakly connected component.
func (g *NetworkGraph) AssertConnected() error {
	sizes := g.ComponentSizes()
	if len(sizes) > 1 {
		return &DisconnectedNetworkError{ComponentSizes: sizes}
	}
	return nil
}

/*
Package route decides where a user can go next.

A Resolver is a navigation policy over a read-only topology. Two policies exist:

  - Linear: locations in alphabetical order, strictly forward, restart at the end.
  - Graph: a directed route graph with designated start and end locations.

Graph topologies are read from a route document (YAML or JSON) that maps each location
to its ordered successors, with the reserved keys "start" and "end":

	start: Harbour
	end: Lighthouse
	Harbour: [Market, Cathedral]
	Market: Lighthouse
	Cathedral: [Lighthouse]
*/
package route

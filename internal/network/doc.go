// Package network turns merged INADEQUATE peaks into spin networks.
//
// Align finds horizontally aligned pairs that obey the double-quantum sum
// rule and sit symmetrically about the diagonal. Build gathers the endpoints
// of those pairs into vertical clusters sharing a carbon, links both kinds of
// edge into one undirected graph and returns its connected components. Tag
// prepares one component for library matching.
//
// Every ordering is derived from sorted (CS, DQ) coordinates so repeated runs
// produce the same networks, tags and reports.
package network

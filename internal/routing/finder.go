// Copyright (C) 2022-2026, VigilantDoomer
//
// This file is part of the simmer program.
//
// simmer is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// simmer is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with simmer.  If not, see <https://www.gnu.org/licenses/>.
package routing

import (
	"container/heap"
	"sync"

	"simmer/internal/geometry"
	"simmer/internal/mesh"
	"simmer/internal/simlog"
)

// LocalTables holds one cell's all-pairs-to-susoExt shortest path
// tables: XSize rows (every non-solid edge), YSize columns (one per
// susoExt source). PathM[v*YSize+k] is the next vertex (1-based, 0 =
// self/unreachable) on the shortest path from vertex v+1 toward the
// susoExt source named by column k; DistM is the matching distance.
type LocalTables struct {
	XSize, YSize int
	Sources      []int // local edge idx of the susoExt at each column
	PathM        []int
	DistM        []float64
}

// FindLocal runs the outer (per cell) / inner (per source) worker
// pools: a fixed-size pool of outer workers pulls cell indices off a
// channel; each outer worker runs its own fixed-size pool of inner
// workers, each of which pops a source column and runs a lazy Dijkstra
// rooted at that source over the cell's non-solid-edge graph. Outer and
// inner pools follow the same bounded-worker-over-channel pattern, just
// nested one level for a two-dimensional fan-out. Each outer worker
// buffers its per-cell progress in its own MiniLogger and merges it
// into logger once, after its last cell, so concurrent workers never
// interleave a line; logger may be nil.
func FindLocal(g *geometry.Geometry, outerThreads, innerThreads int, logger *simlog.Logger) []LocalTables {
	n := g.NumCells()
	results := make([]LocalTables, n)

	cellChan := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < outerThreads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var mini simlog.MiniLogger
			for cell := range cellChan {
				results[cell] = localTablesForCell(g, cell, innerThreads)
				mini.Printf("cell %d: %d edges, %d sources\n", cell, results[cell].XSize, results[cell].YSize)
			}
			mini.MergeInto(logger)
		}()
	}
	for c := 0; c < n; c++ {
		cellChan <- c
	}
	close(cellChan)
	wg.Wait()
	return results
}

func localTablesForCell(g *geometry.Geometry, cell, innerThreads int) LocalTables {
	edges := g.Nosos(cell)
	xSize := len(edges)
	susoExts := g.SusoExts(cell)
	ySize := len(susoExts)

	tbl := LocalTables{
		XSize:   xSize,
		YSize:   ySize,
		Sources: make([]int, ySize),
		PathM:   make([]int, xSize*ySize),
		DistM:   make([]float64, xSize*ySize),
	}
	for k, t := range susoExts {
		tbl.Sources[k] = t.SIdx
	}
	if xSize == 0 || ySize == 0 {
		return tbl
	}

	colChan := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < innerThreads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for col := range colChan {
				dist, parent := dijkstraEdgeGraph(edges, tbl.Sources[col])
				for v := 0; v < xSize; v++ {
					tbl.PathM[v*ySize+col] = parent[v]
					tbl.DistM[v*ySize+col] = dist[v]
				}
			}
		}()
	}
	for k := 0; k < ySize; k++ {
		colChan <- k
	}
	close(colChan)
	wg.Wait()
	return tbl
}

type heapItem struct {
	vertex int // 0-based
	dist   float64
}

type minHeap []heapItem

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(heapItem)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// dijkstraEdgeGraph runs Dijkstra rooted at source (1-based local edge
// idx) over the cell's non-solid-edge graph, whose edge weight between
// adjacent edges u,v is the Euclidean distance between their
// midpoints. Returns 0-based dist/parent arrays; parent[v] is the
// 1-based next-hop toward source (0 if v is the source or unreachable).
func dijkstraEdgeGraph(edges []mesh.Edge, source int) ([]float64, []int) {
	n := len(edges)
	const inf = 1e18
	dist := make([]float64, n)
	parent := make([]int, n)
	visited := make([]bool, n)
	for i := range dist {
		dist[i] = inf
	}
	if source < 1 || source > n {
		return dist, parent
	}
	dist[source-1] = 0

	h := &minHeap{{vertex: source - 1, dist: 0}}
	for h.Len() > 0 {
		item := heap.Pop(h).(heapItem)
		u := item.vertex
		if visited[u] {
			continue
		}
		visited[u] = true
		for _, nb := range edges[u].Neighbors {
			if nb == 0 {
				continue
			}
			v := nb - 1
			w := edges[u].Line.Mid().Dist(edges[v].Line.Mid())
			if dist[u]+w < dist[v] {
				dist[v] = dist[u] + w
				parent[v] = u + 1 // next hop toward source is u
				heap.Push(h, heapItem{vertex: v, dist: dist[v]})
			}
		}
	}
	return dist, parent
}

// GlobalEdge is one weighted adjacency entry in the condensed
// inter-cell graph Router.patchUp builds over interface and exit ids.
type GlobalEdge struct {
	To     int
	Weight float64
}

// PathFinderGlobal runs all-pairs Dijkstra over the condensed global
// graph by running one SSSP per vertex across a pool of threads,
// mirroring FindLocal's outer worker pool. PathM[i*n+s] is the 1-based
// next hop (0 = self/unreachable) on vertex i's shortest path toward
// source s; DistM is the matching distance.
func PathFinderGlobal(adj []map[int]float64, threads int) (pathM []int, distM []float64) {
	n := len(adj)
	pathM = make([]int, n*n)
	distM = make([]float64, n*n)

	srcChan := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < threads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range srcChan {
				dist, parent := dijkstraGlobal(adj, s)
				for i := 0; i < n; i++ {
					pathM[i*n+s] = parent[i]
					distM[i*n+s] = dist[i]
				}
			}
		}()
	}
	for s := 0; s < n; s++ {
		srcChan <- s
	}
	close(srcChan)
	wg.Wait()
	return pathM, distM
}

func dijkstraGlobal(adj []map[int]float64, source int) ([]float64, []int) {
	n := len(adj)
	const inf = 1e18
	dist := make([]float64, n)
	parent := make([]int, n)
	visited := make([]bool, n)
	for i := range dist {
		dist[i] = inf
	}
	dist[source] = 0
	h := &minHeap{{vertex: source, dist: 0}}
	for h.Len() > 0 {
		item := heap.Pop(h).(heapItem)
		u := item.vertex
		if visited[u] {
			continue
		}
		visited[u] = true
		for v, w := range adj[u] {
			if dist[u]+w < dist[v] {
				dist[v] = dist[u] + w
				parent[v] = u + 1
				heap.Push(h, heapItem{vertex: v, dist: dist[v]})
			}
		}
	}
	return dist, parent
}

package topk

import (
	"container/heap"
	"math"

	"github.com/hupe1980/kerngo"
	"github.com/hupe1980/kerngo/handle"
	"github.com/hupe1980/kerngo/internal/simd"
)

// Reorder2Vector re-ranks a first-phase candidate list with exact
// distances computed from the handle's codes. baseDis/baseIdx hold the
// first-phase results; the k best candidates under the handle's metric
// land in dis/idx, best first. baseDis is only used for its length:
// every candidate is re-scored exactly. When fewer than k candidates
// exist, trailing idx slots hold -1.
//
// The contents of baseIdx are validated against the handle's vector
// count.
func Reorder2Vector(kdh *handle.DistanceHandle, baseDis []float32, baseIdx []int64, query []float32, k int, dis []float32, idx []int64) error {
	const op = "Reorder2Vector"
	if err := checkReorder(op, kdh, query, k, dis, idx); err != nil {
		return err
	}
	if baseIdx == nil {
		return &kerngo.PointerError{Op: op, Arg: "baseIdx", Nil: true}
	}
	if len(baseIdx) < len(baseDis) {
		return &kerngo.PointerError{Op: op, Arg: "baseIdx", Need: len(baseDis), Got: len(baseIdx)}
	}
	for _, id := range baseIdx[:len(baseDis)] {
		if id < 0 || id >= int64(kdh.Ny()) {
			return &kerngo.ParamError{Op: op, Arg: "baseIdx", Value: id}
		}
	}
	return rerank(kdh, baseIdx[:len(baseDis)], nil, query, k, dis, idx)
}

// Reorder2VectorContinuous is Reorder2Vector for a contiguous candidate
// range: ids beginID through beginID+baseK-1.
func Reorder2VectorContinuous(kdh *handle.DistanceHandle, baseK, beginID int64, query []float32, k int, dis []float32, idx []int64) error {
	const op = "Reorder2VectorContinuous"
	if err := checkReorder(op, kdh, query, k, dis, idx); err != nil {
		return err
	}
	if baseK < 1 {
		return &kerngo.ParamError{Op: op, Arg: "baseK", Value: baseK}
	}
	if beginID < 0 || beginID+baseK > int64(kdh.Ny()) {
		return &kerngo.ParamError{Op: op, Arg: "beginID", Value: beginID}
	}
	return rerank(kdh, nil, &contRange{begin: beginID, n: baseK}, query, k, dis, idx)
}

type contRange struct {
	begin, n int64
}

func checkReorder(op string, kdh *handle.DistanceHandle, query []float32, k int, dis []float32, idx []int64) error {
	if kdh == nil {
		return &kerngo.PointerError{Op: op, Arg: "kdh", Nil: true}
	}
	if query == nil {
		return &kerngo.PointerError{Op: op, Arg: "query", Nil: true}
	}
	need := kdh.M() * kdh.Dim()
	if len(query) < need {
		return &kerngo.PointerError{Op: op, Arg: "query", Need: need, Got: len(query)}
	}
	if k < 1 {
		return &kerngo.ParamError{Op: op, Arg: "k", Value: int64(k)}
	}
	if dis == nil {
		return &kerngo.PointerError{Op: op, Arg: "dis", Nil: true}
	}
	if len(dis) < k {
		return &kerngo.PointerError{Op: op, Arg: "dis", Need: k, Got: len(dis)}
	}
	if idx == nil {
		return &kerngo.PointerError{Op: op, Arg: "idx", Nil: true}
	}
	if len(idx) < k {
		return &kerngo.PointerError{Op: op, Arg: "idx", Need: k, Got: len(idx)}
	}
	return nil
}

// rerank scores candidates exactly and keeps the k best. Either ids or
// rng provides the candidate set.
func rerank(kdh *handle.DistanceHandle, ids []int64, rng *contRange, query []float32, k int, dis []float32, idx []int64) error {
	asc := kdh.Metric().Ascending()
	n := kdh.M() * kdh.Dim()
	vec := make([]float32, n)

	total := int64(len(ids))
	if rng != nil {
		total = rng.n
	}

	// Worst-possible sentinel distances so unfilled slots lose every
	// comparison and real candidates displace them.
	worst := float32(math.MaxFloat32)
	if !asc {
		worst = -math.MaxFloat32
	}
	out := dis[:k]
	for i := range out {
		out[i] = worst
		idx[i] = -1
	}

	h := &boundedHeap{asc: asc, dis: out, labels: idx[:k]}
	// heap of sentinels is already valid; Fix after each replacement.
	for c := int64(0); c < total; c++ {
		var id int64
		if ids != nil {
			id = ids[c]
		} else {
			id = rng.begin + c
		}
		if err := kdh.Reconstruct(id, vec); err != nil {
			return err
		}
		d := score(query, vec, n, asc)
		if !h.better(d) {
			continue
		}
		h.dis[0] = d
		h.labels[0] = id
		heap.Fix(h, 0)
	}
	h.sortInPlace()
	return nil
}

func score(query, vec []float32, n int, asc bool) float32 {
	if asc {
		return simd.L2Sqr(query, vec, n)
	}
	return simd.IP(query, vec, n)
}

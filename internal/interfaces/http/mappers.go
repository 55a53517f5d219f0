package http

import (
	"github.com/dmejiac/beneficio-api/internal/application/dto"
	"github.com/dmejiac/beneficio-api/internal/domain/entity"
)

func toVinetaResponse(v *entity.Vineta) dto.VinetaResponse {
	return dto.VinetaResponse{
		ID:           v.ID,
		Numero:       v.Numero,
		Subproducto:  v.Subproducto,
		PesoOriginal: v.PesoOriginal,
		PesoActual:   v.PesoActual,
		Estado:       v.Estado,
		Notas:        v.Notas,
	}
}

func toRendimientoResponse(r *entity.Rendimiento) dto.RendimientoResponse {
	vinetas := make([]dto.VinetaResponse, 0, len(r.Vinetas))
	for _, v := range r.Vinetas {
		vinetas = append(vinetas, toVinetaResponse(v))
	}
	return dto.RendimientoResponse{
		ID:                 r.ID,
		Documento:          r.Documento,
		Fecha:              r.Fecha,
		OrdenesIDs:         r.OrdenesTrillaIDs,
		ProyectadoPrimeras: r.ProyectadoPrimeras,
		ProyectadoCatadura: r.ProyectadoCatadura,
		RealPrimeras:       r.RealPrimeras(),
		RealCatadura:       r.RealCatadura(),
		Vinetas:            vinetas,
	}
}

func toReprocesoResponse(r *entity.Reproceso) dto.ReprocesoResponse {
	insumos := make([]dto.InsumoResponse, 0, len(r.Insumos))
	for _, ins := range r.Insumos {
		insumos = append(insumos, dto.InsumoResponse{
			VinetaID:    ins.VinetaID,
			Numero:      ins.NumeroSnapshot,
			Subproducto: ins.SubproductoSnapshot,
			Peso:        ins.PesoSnapshot,
			PctPrimeras: ins.PctPrimeras,
			PctCatadura: ins.PctCatadura,
		})
	}
	salidas := make([]dto.VinetaResponse, 0, len(r.Salidas))
	for _, s := range r.Salidas {
		salidas = append(salidas, toVinetaResponse(s))
	}
	return dto.ReprocesoResponse{
		ID:                 r.ID,
		Documento:          r.Documento,
		Fecha:              r.Fecha,
		Notas:              r.Notas,
		Finalizado:         r.Finalizado,
		Insumos:            insumos,
		Salidas:            salidas,
		TotalEntrada:       r.TotalEntrada,
		TotalSalida:        r.TotalSalida,
		Merma:              r.Merma,
		MermaAnomala:       r.MermaAnomala(),
		ProyectadoPrimeras: r.ProyectadoPrimeras,
		ProyectadoCatadura: r.ProyectadoCatadura,
		RealPrimeras:       r.RealPrimeras(),
		RealCatadura:       r.RealCatadura(),
	}
}

func toOrdenResponse(o *entity.OrdenTrilla) dto.OrdenTrillaResponse {
	return dto.OrdenTrillaResponse{
		ID:            o.ID,
		Numero:        o.Numero,
		TotalTrillar:  o.TotalTrillar,
		TotalPrimeras: o.TotalPrimeras,
		TotalCatadura: o.TotalCatadura,
	}
}

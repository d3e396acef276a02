package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"storefront-api/internal/domain"
	productsvc "storefront-api/internal/service/product"
	"github.com/gin-gonic/gin"
)

func listProductsHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.List(c.Request.Context())
		if err != nil {
			respondServiceError(c, err, http.StatusInternalServerError)
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}

// publicProductsHandler serves the storefront catalog with optional
// category and inStock filters.
func publicProductsHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var inStock *bool
		if raw, ok := c.GetQuery("inStock"); ok {
			parsed, err := strconv.ParseBool(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "inStock must be true or false"})
				return
			}
			inStock = &parsed
		}
		products, err := svc.ListPublic(c.Request.Context(), c.Query("category"), inStock)
		if err != nil {
			respondServiceError(c, err, http.StatusInternalServerError)
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}

func publicProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondServiceError(c, err, http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func getProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondServiceError(c, err, http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// productInputFromForm reads the multipart admin product form, including
// the optional image file.
func productInputFromForm(c *gin.Context) (productsvc.UpsertInput, error) {
	in := productsvc.UpsertInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Currency:    c.PostForm("currency"),
	}
	if raw := c.PostForm("priceCents"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return in, errors.New("priceCents must be a number")
		}
		in.PriceCents = parsed
	}
	if raw := c.PostForm("inStock"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return in, errors.New("inStock must be true or false")
		}
		in.InStock = parsed
	}
	if fh, err := c.FormFile("image"); err == nil {
		in.Image = fh
	}
	return in, nil
}

func createProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := productInputFromForm(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		product, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			respondServiceError(c, err, http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func updateProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := productInputFromForm(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		product, err := svc.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			respondServiceError(c, err, http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func deleteProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondServiceError(c, err, http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}
